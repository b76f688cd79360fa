// Package spec holds the embedded OpenAPI description of the FastSpring API
// and exposes it as an immutable catalog of operation descriptors.
package spec

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

//go:embed openapi.yaml
var document []byte

// Static errors for err113 compliance.
var (
	ErrOperationNotFound     = errors.New("operation not found")
	ErrMissingServerVariable = errors.New("missing server variable")
	ErrInvalidServerVariable = errors.New("server variable value not allowed")
	ErrNoServers             = errors.New("document declares no servers")
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders returns the names of every {name} placeholder in template, in order.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}

	return names
}

// Parameter is a declared operation parameter.
type Parameter struct {
	Name string
	In   string
}

// Operation describes one endpoint of the API.
type Operation struct {
	ID           string
	Method       string
	Path         string
	Summary      string
	Tags         []string
	SuccessCodes []int
	ErrorCodes   []int
	Parameters   []Parameter
	HasBody      bool
	ContentType  string
	Security     []string
}

// Documents reports whether status is declared in the operation's responses.
func (o *Operation) Documents(status int) bool {
	for _, code := range o.SuccessCodes {
		if code == status {
			return true
		}
	}

	for _, code := range o.ErrorCodes {
		if code == status {
			return true
		}
	}

	return false
}

// IsSuccess reports whether status is a 2xx code.
func (o *Operation) IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// SecurityScheme is a declared authentication scheme.
type SecurityScheme struct {
	Name      string
	Type      string
	Scheme    string
	In        string
	ParamName string
}

// IsBasic reports whether the scheme is HTTP basic authentication.
func (s SecurityScheme) IsBasic() bool {
	return s.Type == "http" && strings.EqualFold(s.Scheme, "basic")
}

// IsBearer reports whether the scheme is HTTP bearer authentication.
func (s SecurityScheme) IsBearer() bool {
	return s.Type == "http" && strings.EqualFold(s.Scheme, "bearer")
}

// IsAPIKey reports whether the scheme is an API key in a header, query or cookie.
func (s SecurityScheme) IsAPIKey() bool {
	return s.Type == "apiKey"
}

// ServerVariable is a declared substitution variable of a server URL.
type ServerVariable struct {
	Default string
	Enum    []string
}

// Server is a declared base URL, possibly templated.
type Server struct {
	URL         string
	Description string
	Variables   map[string]ServerVariable
}

// Resolve substitutes every {name} in the server URL. Values in vars take
// precedence over declared defaults.
func (s Server) Resolve(vars map[string]string) (string, error) {
	resolved := s.URL

	for _, name := range Placeholders(s.URL) {
		decl, declared := s.Variables[name]

		value, ok := vars[name]
		if !ok || value == "" {
			value = decl.Default
		}

		if value == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingServerVariable, name)
		}

		if declared && len(decl.Enum) > 0 && !contains(decl.Enum, value) {
			return "", fmt.Errorf("%w: %s=%s", ErrInvalidServerVariable, name, value)
		}

		resolved = strings.ReplaceAll(resolved, "{"+name+"}", value)
	}

	return resolved, nil
}

// Catalog is the parsed, read-only view of the API description.
type Catalog struct {
	Title   string
	Version string

	operations map[string]*Operation
	byID       map[string]*Operation
	schemes    map[string]SecurityScheme
	servers    []Server
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	errLoad  error
)

// Load parses the embedded document once and returns the shared catalog.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, errLoad = Parse(document)
	})

	return loaded, errLoad
}

// MustLoad is Load for callers that cannot proceed without the catalog.
func MustLoad() *Catalog {
	catalog, err := Load()
	if err != nil {
		panic(err)
	}

	return catalog
}

// Parse builds a catalog from an OpenAPI 3 document.
func Parse(data []byte) (*Catalog, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	model, errs := doc.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}

	root := model.Model
	catalog := &Catalog{
		operations: make(map[string]*Operation),
		byID:       make(map[string]*Operation),
		schemes:    make(map[string]SecurityScheme),
	}

	if root.Info != nil {
		catalog.Title = root.Info.Title
		catalog.Version = root.Info.Version
	}

	catalog.servers = convertServers(root.Servers)

	if root.Components != nil && root.Components.SecuritySchemes != nil {
		for pair := root.Components.SecuritySchemes.First(); pair != nil; pair = pair.Next() {
			scheme := pair.Value()
			if scheme == nil {
				continue
			}

			catalog.schemes[pair.Key()] = SecurityScheme{
				Name:      pair.Key(),
				Type:      scheme.Type,
				Scheme:    scheme.Scheme,
				In:        scheme.In,
				ParamName: scheme.Name,
			}
		}
	}

	defaultSecurity := requirementNames(root.Security)

	if root.Paths == nil || root.Paths.PathItems == nil {
		return catalog, nil
	}

	for pair := root.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		item := pair.Value()
		if item == nil {
			continue
		}

		for method, op := range pathOperations(item) {
			if op == nil {
				continue
			}

			operation := convertOperation(method, pair.Key(), item, op, defaultSecurity)
			catalog.operations[key(method, pair.Key())] = operation

			if operation.ID != "" {
				catalog.byID[operation.ID] = operation
			}
		}
	}

	return catalog, nil
}

// Lookup finds the operation registered for method and path template.
func (c *Catalog) Lookup(method, template string) (*Operation, error) {
	op, ok := c.operations[key(method, template)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, strings.ToUpper(method), template)
	}

	return op, nil
}

// Operation finds an operation by its operationId.
func (c *Catalog) Operation(id string) (*Operation, error) {
	op, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}

	return op, nil
}

// Operations returns every operation sorted by path then method.
func (c *Catalog) Operations() []*Operation {
	ops := make([]*Operation, 0, len(c.operations))
	for _, op := range c.operations {
		ops = append(ops, op)
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}

		return ops[i].Method < ops[j].Method
	})

	return ops
}

// SecuritySchemes returns the schemes op may authenticate with, in declaration order.
func (c *Catalog) SecuritySchemes(op *Operation) []SecurityScheme {
	if op == nil {
		return nil
	}

	schemes := make([]SecurityScheme, 0, len(op.Security))
	for _, name := range op.Security {
		if scheme, ok := c.schemes[name]; ok {
			schemes = append(schemes, scheme)
		}
	}

	return schemes
}

// Servers returns the declared servers.
func (c *Catalog) Servers() []Server {
	return c.servers
}

// DefaultServer returns the first declared server.
func (c *Catalog) DefaultServer() (Server, error) {
	if len(c.servers) == 0 {
		return Server{}, ErrNoServers
	}

	return c.servers[0], nil
}

// ServerFor returns the declared server whose URL template equals url.
func (c *Catalog) ServerFor(url string) (Server, bool) {
	for _, server := range c.servers {
		if server.URL == url {
			return server, true
		}
	}

	return Server{}, false
}

func key(method, template string) string {
	return strings.ToUpper(method) + " " + template
}

func pathOperations(item *v3.PathItem) map[string]*v3.Operation {
	return map[string]*v3.Operation{
		http.MethodGet:     item.Get,
		http.MethodPost:    item.Post,
		http.MethodPut:     item.Put,
		http.MethodPatch:   item.Patch,
		http.MethodDelete:  item.Delete,
		http.MethodHead:    item.Head,
		http.MethodOptions: item.Options,
	}
}

func convertOperation(method, path string, item *v3.PathItem, op *v3.Operation, defaultSecurity []string) *Operation {
	operation := &Operation{
		ID:      op.OperationId,
		Method:  method,
		Path:    path,
		Summary: op.Summary,
	}

	if op.Tags != nil {
		operation.Tags = append(operation.Tags, op.Tags...)
	}

	params := make([]*v3.Parameter, 0, len(item.Parameters)+len(op.Parameters))
	params = append(params, item.Parameters...)
	params = append(params, op.Parameters...)

	for _, param := range params {
		if param == nil {
			continue
		}

		operation.Parameters = append(operation.Parameters, Parameter{Name: param.Name, In: param.In})
	}

	if op.RequestBody != nil {
		operation.HasBody = true

		if op.RequestBody.Content != nil {
			for pair := op.RequestBody.Content.First(); pair != nil; pair = pair.Next() {
				operation.ContentType = pair.Key()
				if strings.Contains(pair.Key(), "json") {
					break
				}
			}
		}
	}

	if op.Responses != nil && op.Responses.Codes != nil {
		for pair := op.Responses.Codes.First(); pair != nil; pair = pair.Next() {
			code, err := strconv.Atoi(pair.Key())
			if err != nil {
				continue
			}

			if code >= http.StatusOK && code < http.StatusMultipleChoices {
				operation.SuccessCodes = append(operation.SuccessCodes, code)
			} else {
				operation.ErrorCodes = append(operation.ErrorCodes, code)
			}
		}
	}

	if op.Security != nil {
		operation.Security = requirementNames(op.Security)
	} else {
		operation.Security = defaultSecurity
	}

	return operation
}

func requirementNames(requirements []*base.SecurityRequirement) []string {
	names := []string{}

	for _, requirement := range requirements {
		if requirement == nil || requirement.Requirements == nil {
			continue
		}

		for pair := requirement.Requirements.First(); pair != nil; pair = pair.Next() {
			if !contains(names, pair.Key()) {
				names = append(names, pair.Key())
			}
		}
	}

	return names
}

func convertServers(servers []*v3.Server) []Server {
	result := make([]Server, 0, len(servers))

	for _, server := range servers {
		if server == nil || server.URL == "" {
			continue
		}

		converted := Server{
			URL:         server.URL,
			Description: server.Description,
			Variables:   make(map[string]ServerVariable),
		}

		if server.Variables != nil {
			for pair := server.Variables.First(); pair != nil; pair = pair.Next() {
				variable := pair.Value()
				if variable == nil {
					continue
				}

				converted.Variables[pair.Key()] = ServerVariable{
					Default: variable.Default,
					Enum:    append([]string(nil), variable.Enum...),
				}
			}
		}

		result = append(result, converted)
	}

	return result
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
