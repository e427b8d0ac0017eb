package api

import (
	"encoding/json"
)

// ModifyJSON rewrites a response body before it is decoded. Only ordered
// message lists are touched: every message gets a prev_id pointing at the
// message posted just before it.
func (e Endpoint) ModifyJSON(data []byte) ([]byte, error) {
	if e.order != OrderAsc && e.order != OrderDesc {
		return data, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// not a list of objects, leave it to the decoder to complain
		return data, nil
	}

	LinkPrevIDs(items, e.order)
	return json.Marshal(items)
}

// LinkPrevIDs sets prev_id on each item from the id of its chronological
// predecessor. The oldest item of the page is left alone.
func LinkPrevIDs(items []map[string]json.RawMessage, order SortOrder) {
	link := func(dst, src map[string]json.RawMessage) {
		if dst == nil || src == nil {
			return
		}
		if id, ok := src["id"]; ok {
			dst["prev_id"] = id
		}
	}

	switch order {
	case OrderAsc:
		for i := 1; i < len(items); i++ {
			link(items[i], items[i-1])
		}
	case OrderDesc:
		for i := 0; i < len(items)-1; i++ {
			link(items[i], items[i+1])
		}
	}
}
