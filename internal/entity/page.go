package entity

// RenderedPage is a page after templating, ready to be written out.
type RenderedPage struct {
	Status int
	Href   string // Address with the effective filter state applied
	Body   string
	ETag   string
}
