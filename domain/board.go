package domain

// Board is a top-level container owned by a single user.
type Board struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title"`
}

// List groups todos under a board. The parent board is supplied by the
// client and is not cross-checked against board ownership.
type List struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	Parent string `json:"parent"`
	Title  string `json:"title"`
}
