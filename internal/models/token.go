package models

// TokenPair bundles the access and refresh tokens issued together on
// login and rotation.
// swagger:model TokenPair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
