package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mise/internal/formatter"
	"github.com/desertthunder/mise/internal/models"
)

var _ list.Item = shoppingItem{}

// shoppingItem wraps [models.ShoppingItem] with its checked state to implement [list.Item].
type shoppingItem struct {
	item    models.ShoppingItem
	checked bool
}

func (i shoppingItem) FilterValue() string { return i.item.Name }

func (i shoppingItem) Title() string {
	if i.checked {
		return styles.done.Render("[x] " + i.item.Name)
	}
	return "[ ] " + i.item.Name
}

func (i shoppingItem) Description() string {
	desc := strings.TrimSpace(formatter.FormatQuantity(i.item.Quantity) + " " + i.item.UnitString())
	if i.item.OriginalString != nil {
		desc = fmt.Sprintf("%s • plus %s", desc, *i.item.OriginalString)
	}
	return desc
}

// key identifies an aggregated line across reloads.
func (i shoppingItem) key() string {
	return strings.ToLower(i.item.Name) + "\x00" + strings.ToLower(i.item.UnitString())
}
