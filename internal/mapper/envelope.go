package mapper

import (
	"fmt"

	"github.com/presenttv/client/internal/models"
)

// Result returns the "result" object of a single-entity response.
func Result(body map[string]any) (map[string]any, error) {
	result, err := newFields(body, "").object("result")
	if err != nil {
		return nil, err
	}
	return result.m, nil
}

// ResultObject returns "result.object", used by calls that answer with a bare
// object instead of an entity document.
func ResultObject(body map[string]any) (map[string]any, error) {
	result, err := newFields(body, "").object("result")
	if err != nil {
		return nil, err
	}
	obj, err := result.object("object")
	if err != nil {
		return nil, err
	}
	return obj.m, nil
}

// Page maps a list response: every element of "results" is passed to item in
// order and "nextCursor" becomes the page cursor. A missing cursor is 0.
func Page[T any](body map[string]any, item func(doc map[string]any) (T, error)) (models.Page[T], error) {
	root := newFields(body, "")

	results, err := root.array("results")
	if err != nil {
		return models.Page[T]{}, err
	}

	page := models.Page[T]{Items: make([]T, 0, len(results))}
	if root.has("nextCursor") {
		if page.Cursor, err = root.integer("nextCursor"); err != nil {
			return models.Page[T]{}, err
		}
	}

	for i := range results {
		doc, err := elem(results, i, "results")
		if err != nil {
			return models.Page[T]{}, err
		}
		v, err := item(doc.m)
		if err != nil {
			return models.Page[T]{}, fmt.Errorf("%s: %w", doc.path, err)
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

// Object returns the required nested object stored under key.
func Object(doc map[string]any, key string) (map[string]any, error) {
	obj, err := newFields(doc, "").object(key)
	if err != nil {
		return nil, err
	}
	return obj.m, nil
}
