package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(testItem())
	second := testItem()
	second.EditionID = "ed-2"
	second.Quantity = 3
	c.AddItem(second)
	c.Email = "a@b.com"
	c.Address = &types.Address{Name: "Jane Doe", Street: "123 Mulberry Ln", City: "Wadsworth", State: "OH", Zip: "44281", Country: "US"}

	data, err := Serialize(c)
	require.NoError(t, err)

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, c, restored)
}

func TestSerializeEmptyCart(t *testing.T) {
	t.Parallel()

	data, err := Serialize(New())
	require.NoError(t, err)

	restored, err := Deserialize(data)
	require.NoError(t, err)
	assert.Empty(t, restored.Items)
	assert.Nil(t, restored.Address)
}

func TestDeserializeMalformedPayload(t *testing.T) {
	t.Parallel()

	_, err := Deserialize([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDeserializeRejectsUnknownEnums(t *testing.T) {
	t.Parallel()

	payload := `{"items":[{"editionId":"ed-1","editionType":"abridged","quantity":1,"printSize":"m"}]}`
	_, err := Deserialize([]byte(payload))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDeserializeClampsQuantity(t *testing.T) {
	t.Parallel()

	payload := `{"items":[{"editionId":"ed-1","editionType":"original","quantity":0,"printSize":"s"}]}`
	restored, err := Deserialize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, 1, restored.Items[0].Quantity)
}
