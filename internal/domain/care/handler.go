package care

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tamagitchi/internal/domain/pets"
	"tamagitchi/internal/middleware"
	"tamagitchi/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de cuidado. partition es el middleware que
// resuelve el colo del request; solo se aplica donde hace falta.
func RegisterRoutes(r chi.Router, svc *Service, partition func(http.Handler) http.Handler) {
	r.With(partition).Post("/interactions", interactHandler(svc))

	r.Post("/degrade", degradeAllHandler(svc))

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/{colo}", getPetHandler(svc))
		pr.Post("/{colo}/degrade", degradeOneHandler(svc))
	})

	r.Get("/leaderboard", leaderboardHandler(svc))
	r.Get("/feed", feedHandler(svc))
	r.Get("/feed.csv", feedCSVHandler(svc))
}

// interactionRequest: type es feed | play; colo es opcional (si falta se usa
// el resuelto por el middleware).
type interactionRequest struct {
	Type        string `json:"type" example:"feed"`
	Subtype     string `json:"subtype" example:"pizza"`
	Username    string `json:"github_username" example:"octocat"`
	Colo        string `json:"colo,omitempty" example:"DFW"`
	IssueNumber *int64 `json:"issue_number,omitempty" example:"42"`
}

type vitalsResponse struct {
	Health    float64 `json:"health"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Hunger    float64 `json:"hunger"`
}

type petResponse struct {
	ID                string         `json:"id"`
	Colo              string         `json:"colo"`
	Name              string         `json:"name"`
	Stats             vitalsResponse `json:"stats"`
	Level             int            `json:"level"`
	Experience        int            `json:"experience"`
	TotalInteractions int            `json:"total_interactions"`
	State             pets.State     `json:"state"`
	LastFed           time.Time      `json:"last_fed"`
	LastPlayed        time.Time      `json:"last_played"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type deltaResponse struct {
	HealthChange     float64 `json:"health_change"`
	HappinessChange  float64 `json:"happiness_change"`
	EnergyChange     float64 `json:"energy_change"`
	HungerChange     float64 `json:"hunger_change"`
	ExperienceGained int     `json:"experience_gained"`
	PointsEarned     int     `json:"points_earned"`
}

type interactionResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Pet      *petResponse   `json:"tamagitchi,omitempty"`
	Delta    *deltaResponse `json:"delta,omitempty"`
	NewLevel *int           `json:"new_level,omitempty"` // solo si subió de nivel
}

type summaryResponse struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"` // no persistidas
}

type degradedPetResponse struct {
	ID           string     `json:"id"`
	HoursElapsed int        `json:"hours_elapsed"`
	From         pets.State `json:"from"`
	To           pets.State `json:"to"`
}

type degradationResponse struct {
	Colo    string                `json:"colo"`
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Summary summaryResponse       `json:"summary"`
	Updates []degradedPetResponse `json:"updates"`
}

type runResponse struct {
	Success    bool                  `json:"success"`
	Partitions int                   `json:"partitions"`
	Failed     int                   `json:"failed"`
	Summary    summaryResponse       `json:"summary"`
	Results    []degradationResponse `json:"results"`
	Error      string                `json:"error,omitempty"`
}

type feedItemResponse struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	Owner       string    `json:"owner"`
	AvatarURL   string    `json:"avatar_url"`
	Pet         string    `json:"pet"`
	Colo        string    `json:"colo"`
	Type        string    `json:"type"`
	Subtype     string    `json:"subtype"`
	Points      int       `json:"points"`
	IssueNumber *int64    `json:"issue_number,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// interactHandler godoc
// @Summary Interactuar con la mascota de un colo
// @Description Alimenta (`feed`) o juega (`play`) con la mascota del colo. El colo sale del body; si falta o está malformado, del header configurado o del sufijo de `CF-Ray`; si tampoco está, se usa el default. Un subtipo desconocido no es error: aplica efecto cero y cuenta como interacción. `github_username` puede omitirse si el request trae identidad (`X-Debug-User` en dev o `Authorization: Bearer <token>`).
// @Tags interactions
// @Accept json
// @Produce json
// @Param X-Debug-User header string false "Solo en modo dev, login de GitHub para depuración"
// @Param Authorization header string false "Bearer token de GitHub en producción"
// @Param payload body interactionRequest true "Tipo, subtipo y owner de la interacción"
// @Success 200 {object} interactionResponse
// @Failure 400 {object} errorResponse "json inválido / type, subtype, owner o colo inválidos"
// @Failure 409 {object} errorResponse "la mascota murió"
// @Failure 500 {object} errorResponse "error de persistencia"
// @Failure 503 {object} errorResponse "actor del colo no disponible"
// @Router /interactions [post]
func interactHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}

		owner := strings.TrimSpace(req.Username)
		if owner == "" {
			if claims, ok := middleware.GetClaims(r.Context()); ok {
				owner = claims.Username
			}
		}

		colo := strings.TrimSpace(req.Colo)
		if colo != "" {
			if _, ok := pets.NormalizePartition(colo); !ok {
				// mismo criterio que el middleware: warning y colo resuelto
				fallback, _ := middleware.PartitionFromContext(r.Context())
				logger.FromContext(r.Context(), logger.Nop()).Warn("malformed colo in body, using fallback", map[string]any{
					"colo":     colo,
					"fallback": fallback,
				})
				colo = fallback
			}
		}
		if colo == "" {
			colo, _ = middleware.PartitionFromContext(r.Context())
		}

		res, err := svc.Interact(r.Context(), Interaction{
			Kind:        pets.InteractionKind(req.Type),
			Subtype:     req.Subtype,
			Owner:       owner,
			Partition:   colo,
			IssueNumber: req.IssueNumber,
		})
		if err != nil {
			writeJSON(w, statusFor(err), errorResponse{Message: res.Message})
			return
		}

		out := interactionResponse{
			Success: true,
			Message: res.Message,
			Pet:     toPetResponse(res.Pet),
			Delta:   toDeltaResponse(res.Delta),
		}
		if res.LeveledUp {
			lvl := res.Pet.Level
			out.NewLevel = &lvl
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// degradeAllHandler godoc
// @Summary Degradar todos los colos
// @Description Dispara la degradación por tiempo en todos los colos conocidos (lo mismo que hace el scheduler). Un colo que falla no corta a los demás; en ese caso responde 500 con el resumen parcial.
// @Tags degradation
// @Produce json
// @Success 200 {object} runResponse
// @Failure 500 {object} runResponse "algún colo falló"
// @Router /degrade [post]
func degradeAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := svc.DegradeAll(r.Context())

		out := runResponse{
			Success:    err == nil,
			Partitions: sum.Partitions,
			Failed:     sum.Failed,
			Summary: summaryResponse{
				Processed: sum.Processed,
				Updated:   sum.Updated,
				Skipped:   sum.Skipped,
				Failed:    sum.Unsaved,
			},
			Results: make([]degradationResponse, 0, len(sum.Results)),
		}
		for _, res := range sum.Results {
			out.Results = append(out.Results, toDegradationResponse(res))
		}

		if err != nil {
			out.Error = err.Error()
			writeJSON(w, http.StatusInternalServerError, out)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// degradeOneHandler godoc
// @Summary Degradar un colo
// @Description Aplica la degradación por tiempo a la mascota del colo indicado. Correr dos veces dentro de la misma hora no cambia nada la segunda vez.
// @Tags degradation
// @Produce json
// @Param colo path string true "Código IATA del colo (ej: DFW)"
// @Success 200 {object} degradationResponse
// @Failure 400 {object} degradationResponse "colo inválido"
// @Failure 500 {object} degradationResponse "error de persistencia (resumen parcial)"
// @Failure 503 {object} degradationResponse "actor del colo no disponible"
// @Router /pets/{colo}/degrade [post]
func degradeOneHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Degrade(r.Context(), chi.URLParam(r, "colo"))
		if err != nil {
			writeJSON(w, statusFor(err), toDegradationResponse(res))
			return
		}
		writeJSON(w, http.StatusOK, toDegradationResponse(res))
	}
}

// getPetHandler godoc
// @Summary Ver la mascota de un colo
// @Description Devuelve el snapshot actual (solo lectura, no pasa por el actor).
// @Tags pets
// @Produce json
// @Param colo path string true "Código IATA del colo (ej: DFW)"
// @Success 200 {object} petResponse
// @Failure 400 {object} errorResponse "colo inválido"
// @Failure 404 {object} errorResponse "el colo todavía no tiene mascota"
// @Router /pets/{colo} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Pet(r.Context(), chi.URLParam(r, "colo"))
		if err != nil {
			writeJSON(w, statusFor(err), errorResponse{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// leaderboardHandler godoc
// @Summary Ranking de mascotas
// @Description Ordena por nivel y experiencia (desc).
// @Tags pets
// @Produce json
// @Param limit query int false "Máximo de mascotas (1-100). Por defecto 10"
// @Success 200 {array} petResponse
// @Failure 400 {object} errorResponse "limit inválido"
// @Router /leaderboard [get]
func leaderboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "limit must be between 1 and 100"})
			return
		}

		items, err := svc.Leaderboard(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, *toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// feedHandler godoc
// @Summary Actividad reciente
// @Description Últimas interacciones de todos los colos, más recientes primero.
// @Tags feed
// @Produce json
// @Param limit query int false "Máximo de items (1-100). Por defecto 10"
// @Success 200 {array} feedItemResponse
// @Failure 400 {object} errorResponse "limit inválido"
// @Router /feed [get]
func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "limit must be between 1 and 100"})
			return
		}

		items, err := svc.Feed(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
			return
		}

		out := make([]feedItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, feedItemResponse{
				ID:          it.Activity.ID,
				Message:     it.Message,
				Owner:       it.Owner.Username,
				AvatarURL:   it.Owner.AvatarOrDefault(),
				Pet:         it.Pet.Name,
				Colo:        it.Pet.Partition,
				Type:        string(it.Activity.Kind),
				Subtype:     it.Activity.Subtype,
				Points:      it.Activity.Points,
				IssueNumber: it.Activity.IssueNumber,
				OccurredAt:  it.Activity.OccurredAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// feedCSVHandler godoc
// @Summary Actividad reciente (CSV)
// @Description Mismo feed que /feed exportado como CSV con header.
// @Tags feed
// @Produce text/csv
// @Param limit query int false "Máximo de items (1-100). Por defecto 10"
// @Success 200 {string} string "CSV"
// @Failure 400 {object} errorResponse "limit inválido"
// @Router /feed.csv [get]
func feedCSVHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "limit must be between 1 and 100"})
			return
		}

		b, err := svc.FeedCSV(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="feed.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// parseLimit: vacío => default; fuera de 1..100 o no numérico => inválido.
func parseLimit(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxLimit {
		return 0, false
	}
	return n, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, pets.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPetDeceased):
		return http.StatusConflict
	case errors.Is(err, ErrActorUnavailable), errors.Is(err, ErrActorStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toPetResponse(p pets.Pet) *petResponse {
	return &petResponse{
		ID:   p.ID,
		Colo: p.Partition,
		Name: p.Name,
		Stats: vitalsResponse{
			Health:    p.Health,
			Happiness: p.Happiness,
			Energy:    p.Energy,
			Hunger:    p.Hunger,
		},
		Level:             p.Level,
		Experience:        p.Experience,
		TotalInteractions: p.TotalInteractions,
		State:             p.State,
		LastFed:           p.LastFed,
		LastPlayed:        p.LastPlayed,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toDeltaResponse(d pets.Delta) *deltaResponse {
	return &deltaResponse{
		HealthChange:     d.HealthChange,
		HappinessChange:  d.HappinessChange,
		EnergyChange:     d.EnergyChange,
		HungerChange:     d.HungerChange,
		ExperienceGained: d.ExperienceGained,
		PointsEarned:     d.PointsEarned,
	}
}

func toDegradationResponse(res DegradationResponse) degradationResponse {
	out := degradationResponse{
		Colo:    res.Partition,
		Success: res.Success,
		Message: res.Message,
		Summary: summaryResponse{
			Processed: res.Summary.Processed,
			Updated:   res.Summary.Updated,
			Skipped:   res.Summary.Skipped,
			Failed:    res.Summary.Failed,
		},
		Updates: make([]degradedPetResponse, 0, len(res.Updates)),
	}
	for _, u := range res.Updates {
		out.Updates = append(out.Updates, degradedPetResponse{
			ID:           u.Pet.ID,
			HoursElapsed: u.HoursElapsed,
			From:         u.Previous,
			To:           u.Pet.State,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
