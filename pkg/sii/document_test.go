package sii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsvibes/ets-vibes/pkg/sii"
)

const economy = "SiiNunit\r\n{\r\neconomy : _nameless.1a2b {\r\n money_account: 1234567\r\n experience_points: 8900  \r\n money: 12\r\n}\r\n}\r\n"

func TestDocumentGet(t *testing.T) {
	t.Parallel()

	doc := sii.NewDocument(economy)

	v, ok := doc.Get("money_account")
	require.True(t, ok)
	assert.Equal(t, "1234567", v)

	v, ok = doc.Get("experience_points")
	require.True(t, ok)
	assert.Equal(t, "8900", v)

	v, ok = doc.Get("money")
	require.True(t, ok)
	assert.Equal(t, "12", v)

	_, ok = doc.Get("info_money_account")
	assert.False(t, ok)

	_, ok = doc.Get("account")
	assert.False(t, ok)
}

func TestDocumentSet(t *testing.T) {
	t.Parallel()

	doc := sii.NewDocument(economy)

	require.True(t, doc.SetInt("experience_points", 10000000))
	assert.Equal(t,
		"SiiNunit\r\n{\r\neconomy : _nameless.1a2b {\r\n money_account: 1234567\r\n experience_points: 10000000  \r\n money: 12\r\n}\r\n}\r\n",
		doc.Content(),
	)

	require.True(t, doc.Set("money_account", "$1"))
	v, ok := doc.Get("money_account")
	require.True(t, ok)
	assert.Equal(t, "$1", v)

	before := doc.Content()
	assert.False(t, doc.Set("truck_count", "4"))
	assert.Equal(t, before, doc.Content())
}

func TestDocumentSetAllOccurrences(t *testing.T) {
	t.Parallel()

	doc := sii.NewDocument("a {\n\tlevel: 1\n}\nb {\n\tlevel: 2\n}\n")
	assert.Equal(t, 2, doc.Count("level"))

	require.True(t, doc.SetInt("level", 9))
	assert.Equal(t, "a {\n\tlevel: 9\n}\nb {\n\tlevel: 9\n}\n", doc.Content())
}

func TestDocumentEmptyValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"crlf":              "money_account:\r\nnext: 1\r\n",
		"trailing spaces":   "money_account:   \nnext: 1\n",
		"trailing tab crlf": " money_account :\t\r\nnext: 1\r\n",
	}

	for name, content := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := sii.NewDocument(content)

			_, ok := doc.Get("money_account")
			assert.False(t, ok)
			assert.Zero(t, doc.Count("money_account"))

			assert.False(t, doc.SetInt("money_account", 5))
			assert.Equal(t, content, doc.Content())

			v, ok := doc.Get("next")
			require.True(t, ok)
			assert.Equal(t, "1", v)
		})
	}
}

func TestDocumentSetKeepsCRLF(t *testing.T) {
	t.Parallel()

	doc := sii.NewDocument("a {\r\n money_account: 1\r\n}\r\n")

	require.True(t, doc.SetInt("money_account", 250))
	assert.Equal(t, "a {\r\n money_account: 250\r\n}\r\n", doc.Content())
}

func TestPropertyName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "money_account", sii.PropertyName("moneyAccount"))
	assert.Equal(t, "money_account", sii.PropertyName(" Money-Account "))
	assert.Equal(t, "experience_points", sii.PropertyName("experience_points"))
}
