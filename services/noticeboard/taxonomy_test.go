package noticeboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"noticeboard-migrate/lib/contentstore"

	"github.com/stretchr/testify/require"
)

func TestCategoryIdForPath(t *testing.T) {
	testCases := []struct {
		sourcePath string
		expected   string
	}{
		{"articles/shopping/bakery-sale.html", "category-shopping"},
		{"articles/kosher-outdoor-dining/terrace.html", "category-kosher-outdoor-dining"},
		{"articles/outings-and-activities/zoo-trip.html", "category-outings-activities"},
		{"articles/no-such-segment/thing.html", DefaultCategoryId},
		{"orphan.html", DefaultCategoryId},
	}

	for _, tc := range testCases {
		got := CategoryIdForPath(tc.sourcePath)
		if got != tc.expected {
			t.Fatalf("CategoryIdForPath(%q) = %q, expected %q", tc.sourcePath, got, tc.expected)
		}
	}
}

func TestSubCategoryParentsExist(t *testing.T) {
	for _, sub := range SubCategories {
		parent, ok := CategoryById(sub.ParentId)
		require.True(t, ok, "subcategory %s references unknown parent %s", sub.Id, sub.ParentId)
		require.Empty(t, parent.ParentId, "parent %s of %s is not top-level", parent.Id, sub.Id)
	}
}

func TestPathTableTargetsKnownCategories(t *testing.T) {
	for segment, id := range pathToCategoryId {
		_, ok := CategoryById(id)
		require.True(t, ok, "segment %s maps to unknown category %s", segment, id)
	}
}

func TestEnsureTaxonomyWritesParentsFirst(t *testing.T) {
	var createdOrder []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Mutations []contentstore.Mutation `json:"mutations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for _, m := range req.Mutations {
			require.NotNil(t, m.CreateOrReplace)
			createdOrder = append(createdOrder, m.CreateOrReplace["_id"].(string))
		}
		fmt.Fprint(w, `{"transactionId":"t"}`)
	}))
	defer server.Close()

	store, err := contentstore.NewClient(contentstore.ClientOptions{
		BaseUrl: server.URL,
		Dataset: "production",
		Token:   "test-token",
	})
	require.NoError(t, err)

	require.NoError(t, EnsureTaxonomy(context.Background(), store))

	position := map[string]int{}
	for i, id := range createdOrder {
		position[id] = i
	}
	for _, sub := range SubCategories {
		require.Less(
			t, position[sub.ParentId], position[sub.Id],
			"parent %s must be written before child %s", sub.ParentId, sub.Id,
		)
	}
}
