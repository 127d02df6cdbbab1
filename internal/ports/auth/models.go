package auth

// Claims representa la identidad extraída del token.
type Claims struct {
	UserID   string
	Username string // login de GitHub; es el owner de las interacciones
	Email    string
}
