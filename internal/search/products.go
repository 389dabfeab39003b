package search

// ProductIndex holds one document per product master row.
const ProductIndex = "products"

const ProductMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"name": { "type": "text" },
			"suggested_price": { "type": "double" },
			"member_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

// ProductQuery matches q anywhere in the product name, best matches first.
func ProductQuery(q string, size int) map[string]any {
	query := map[string]any{
		"query": map[string]any{
			"query_string": map[string]any{
				"query":            "*" + q + "*",
				"fields":           []string{"name"},
				"analyze_wildcard": true,
			},
		},
		"_source": false,
	}
	if size > 0 {
		query["size"] = size
	}
	return query
}

// IDs returns the hit document ids in ranking order.
func (r *SearchResponse) IDs() []string {
	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
