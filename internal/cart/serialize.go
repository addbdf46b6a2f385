package cart

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"

	"github.com/marlowpress/storefront-backend/pkg/enums"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// itemSnapshot is the persisted wire shape of one cart item. The field names
// are shared with the order API, so old persisted carts stay readable.
type itemSnapshot struct {
	EditionID    string `json:"editionId"`
	DocumentID   string `json:"documentId"`
	EditionType  string `json:"editionType"`
	Quantity     int    `json:"quantity"`
	PrintSize    string `json:"printSize"`
	NumPages     []int  `json:"numPages"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	DisplayTitle string `json:"displayTitle"`
}

type cartSnapshot struct {
	Items   []itemSnapshot `json:"items"`
	Email   string         `json:"email,omitempty"`
	Address *types.Address `json:"address,omitempty"`
}

// Serialize renders the cart as an order-preserving plain representation.
func Serialize(c *Cart) ([]byte, error) {
	snapshot := cartSnapshot{
		Items:   make([]itemSnapshot, 0, len(c.Items)),
		Email:   c.Email,
		Address: c.Address,
	}
	for _, item := range c.Items {
		snapshot.Items = append(snapshot.Items, itemSnapshot{
			EditionID:    item.EditionID,
			DocumentID:   item.DocumentID,
			EditionType:  item.EditionType.String(),
			Quantity:     item.Quantity,
			PrintSize:    item.PrintSize.String(),
			NumPages:     item.NumPages,
			Title:        item.Title,
			Author:       item.Author,
			DisplayTitle: item.DisplayTitle,
		})
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	return data, nil
}

// Deserialize reconstructs a cart from its serialized form. The round trip
// Deserialize(Serialize(cart)) reproduces an equal cart.
func Deserialize(data []byte) (*Cart, error) {
	var snapshot cartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed cart snapshot")
	}

	c := &Cart{Email: snapshot.Email, Address: snapshot.Address}
	var invalid error
	for idx, item := range snapshot.Items {
		editionType, err := enums.ParseEditionType(item.EditionType)
		if err != nil {
			invalid = multierr.Append(invalid, fmt.Errorf("item %d: %w", idx, err))
			continue
		}
		printSize, err := enums.ParsePrintSize(item.PrintSize)
		if err != nil {
			invalid = multierr.Append(invalid, fmt.Errorf("item %d: %w", idx, err))
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		c.Items = append(c.Items, CartItem{
			EditionID:    item.EditionID,
			DocumentID:   item.DocumentID,
			EditionType:  editionType,
			Quantity:     qty,
			PrintSize:    printSize,
			NumPages:     item.NumPages,
			Title:        item.Title,
			Author:       item.Author,
			DisplayTitle: item.DisplayTitle,
		})
	}
	if invalid != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, invalid, "cart snapshot has invalid items")
	}
	return c, nil
}
