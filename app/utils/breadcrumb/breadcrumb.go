package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Trail starts every breadcrumb list at the home page.
func Trail(items ...Breadcrumb) []Breadcrumb {
	return append([]Breadcrumb{{Name: "Home", URL: "/"}}, items...)
}
