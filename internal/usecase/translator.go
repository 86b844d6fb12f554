package usecase

import (
	"html"

	"catalog-broadcast-bot/internal/domain/model"
)

// Translator renders localized text; *i18n.Translator satisfies it.
type Translator interface {
	T(key string, args ...interface{}) string
}

// ProductCaption renders the HTML caption used for listings and broadcasts.
// Operator supplied fields are escaped.
func ProductCaption(tr Translator, p *model.Product) string {
	return tr.T("caption_product",
		html.EscapeString(p.Name),
		html.EscapeString(p.Type),
		html.EscapeString(p.Price),
		html.EscapeString(p.Description),
		html.EscapeString(p.Age),
	)
}
