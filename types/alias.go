package types

// AliasRequest is the body of the alias add and remove endpoints. It binds
// from urlencoded, multipart or JSON bodies.
type AliasRequest struct {
	Name string `form:"name" json:"name"`
	Path string `form:"path" json:"path"`
}
