package middleware

import (
	"context"
	"net/http"
	"strings"

	"tamagitchi/internal/domain/pets"
	"tamagitchi/internal/platform/logger"
)

const partitionKey ctxKey = "partition"

// Partition resuelve el colo del request y lo deja en el ctx:
//  1. header configurado (p.ej. X-Colo)
//  2. sufijo del CF-Ray ("8f1c2d3e4a5b6c7d-DFW")
//  3. fallback, con warning
//
// Un valor malformado también cae al fallback con warning.
func Partition(header, fallback string, base logger.Logger) func(http.Handler) http.Handler {
	header = strings.TrimSpace(header)
	if p, ok := pets.NormalizePartition(fallback); ok {
		fallback = p
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, source := "", ""
			if header != "" {
				if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
					raw, source = v, header
				}
			}
			if raw == "" {
				if v := rayColo(r.Header.Get("CF-Ray")); v != "" {
					raw, source = v, "CF-Ray"
				}
			}

			partition := fallback
			switch p, ok := pets.NormalizePartition(raw); {
			case raw == "":
				logger.FromContext(r.Context(), base).Warn("no colo on request, using default", map[string]any{
					"default": fallback,
				})
			case !ok:
				logger.FromContext(r.Context(), base).Warn("malformed colo, using default", map[string]any{
					"value":   raw,
					"source":  source,
					"default": fallback,
				})
			default:
				partition = p
			}

			ctx := context.WithValue(r.Context(), partitionKey, partition)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PartitionFromContext devuelve el colo resuelto por Partition.
func PartitionFromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(partitionKey).(string)
	return p, ok && p != ""
}

func rayColo(ray string) string {
	ray = strings.TrimSpace(ray)
	i := strings.LastIndexByte(ray, '-')
	if i < 0 || i == len(ray)-1 {
		return ""
	}
	return ray[i+1:]
}
