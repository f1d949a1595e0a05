package assistant

import (
	"strconv"
	"strings"

	"montraa-store/internal/product"
)

const persona = `You are 'Monty', the intelligent shopping assistant for the SnapCart E-Commerce store.
You are friendly, concise, and helpful.
Your goal is to help users find products, answer questions about items, and provide styling or technical advice.`

const rules = `Rules:
1. Only recommend products from the catalog above.
2. If a user asks about a product not in the catalog, politely say we don't carry it yet.
3. Keep answers under 100 words unless detailed specs are requested.
4. Use emojis occasionally to be friendly. 🧡`

// CatalogContext renders one line per product:
//
//	- <name> ($<price>): <description> (Category: <category>)
func CatalogContext(products []product.Product) string {
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = "- " + p.Name +
			" ($" + strconv.FormatFloat(p.Price, 'f', -1, 64) + "): " +
			p.Description +
			" (Category: " + string(p.Category) + ")"
	}
	return strings.Join(lines, "\n")
}

// SystemInstruction is the persona, the live catalog and the style rules.
func SystemInstruction(c *product.Catalog) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nHere is our current product catalog:\n")
	b.WriteString(CatalogContext(c.All()))
	b.WriteString("\n\n")
	b.WriteString(rules)
	b.WriteString("\n")
	return b.String()
}
