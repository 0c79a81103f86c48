// Package domain defines the turn types of the sales assistant
package domain

import (
	"fmt"
	"strings"

	idom "tdsdesk/internal/services/interactions/domain"
	pdom "tdsdesk/internal/services/products/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turn is one customer message
type Turn struct {
	Question string
	Channel  idom.Channel
}

// Result is the outcome of a turn
type Result struct {
	TurnID      uuid.UUID
	Identifier  string
	Answer      string
	Product     *pdom.Product
	Degraded    bool
	Interaction idom.Interaction
}

// Matched reports whether a catalog row backed the answer
func (r Result) Matched() bool { return r.Product != nil }

// FactSheet holds the product facts an answer may use
type FactSheet struct {
	Description string
	Code        string
	Brand       string
	Balance     int
	Price       decimal.NullDecimal
}

// SheetFor builds the fact sheet of a product
func SheetFor(p pdom.Product) FactSheet {
	return FactSheet{
		Description: strings.TrimSpace(p.Description),
		Code:        strings.TrimSpace(p.Code),
		Brand:       strings.TrimSpace(p.Brand),
		Balance:     p.Balance,
		Price:       p.Price,
	}
}

func (f FactSheet) lines() []string {
	out := []string{"Nome do Produto: " + f.Description}
	if f.Code != "" {
		out = append(out, "Código: "+f.Code)
	}
	if f.Brand != "" {
		out = append(out, "Marca: "+f.Brand)
	}
	out = append(out, fmt.Sprintf("Estoque Atual: %d unidades", f.Balance))
	if f.Price.Valid {
		out = append(out, "Preço: "+BRL(f.Price.Decimal))
	}
	return out
}

// String renders the sheet as the bullet list the compose prompt embeds
func (f FactSheet) String() string {
	ls := f.lines()
	for i := range ls {
		ls[i] = "- " + ls[i]
	}
	return strings.Join(ls, "\n")
}

// Plain renders the sheet as a customer answer when composing failed
func (f FactSheet) Plain() string {
	return strings.Join(f.lines(), "\n")
}

// BRL formats an amount as Brazilian reais
func BRL(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
