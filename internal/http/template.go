package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/spec"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// ResolveTemplate substitutes every {name} in template with the escaped value
// from params. Placeholders in the path are path-escaped, placeholders in a
// literal query string are query-escaped. A missing or empty value is an error.
func ResolveTemplate(template string, params map[string]string) (string, error) {
	path, query, hasQuery := strings.Cut(template, "?")

	resolvedPath, err := substitute(path, params, url.PathEscape)
	if err != nil {
		return "", err
	}

	if !hasQuery {
		return resolvedPath, nil
	}

	resolvedQuery, err := substitute(query, params, url.QueryEscape)
	if err != nil {
		return "", err
	}

	return resolvedPath + "?" + resolvedQuery, nil
}

func substitute(template string, params map[string]string, escape func(string) string) (string, error) {
	resolved := template

	for _, name := range spec.Placeholders(template) {
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s in %s", fastspring.ErrMissingPathParameter, name, template)
		}

		resolved = strings.Replace(resolved, "{"+name+"}", escape(value), 1)
	}

	return resolved, nil
}
