package renderer

import (
	"html/template"

	"github.com/Rakhulsr/go-shoppingmall/app/utils/format"
	"github.com/unrolled/render"
)

// New builds the HTML/JSON renderer over the templates in dir.
func New(dir string, development bool) *render.Render {
	return render.New(render.Options{
		Directory:     dir,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: development,
		Funcs: []template.FuncMap{
			{
				"formatPrice":   format.Price,
				"discountLabel": format.DiscountLabel,
				"add": func(a, b int) int { return a + b },
			},
		},
	})
}
