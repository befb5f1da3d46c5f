package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
)

// errBodyTooLarge is returned by decodeFields when the body exceeds the
// limit installed by middleware.NewMaxBodySizeHandler.
var errBodyTooLarge = errors.New("request body too large")

// listParams holds the optional query parameters of GET /api/pilgrimages.
type listParams struct {
	Date   *string
	Church *string
	Status *string
	Month  *string
}

func (p listParams) filter() domain.ListFilter {
	return domain.ListFilter{
		Date:   deref(p.Date),
		Church: deref(p.Church),
		Status: deref(p.Status),
		Month:  deref(p.Month),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func bindListParams(r *http.Request) (listParams, error) {
	var params listParams
	q := r.URL.Query()
	for name, dest := range map[string]**string{
		"date":   &params.Date,
		"church": &params.Church,
		"status": &params.Status,
		"month":  &params.Month,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			return listParams{}, fmt.Errorf("parámetro %q inválido", name)
		}
	}
	return params, nil
}

// requiredQuery binds a single required query parameter. An empty value
// counts as missing.
func requiredQuery(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil || v == nil || *v == "" {
		return "", fmt.Errorf("El parámetro %q es requerido", name)
	}
	return *v, nil
}

// pathID binds the {id} path segment.
func pathID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", errors.New(`parámetro "id" inválido`)
	}
	return id, nil
}

// decodeFields reads the JSON body into domain.Fields. An empty body decodes
// to empty Fields so the model rules report what is missing.
func decodeFields(r *http.Request) (domain.Fields, error) {
	var f domain.Fields
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return f, errBodyTooLarge
		}
		return f, errors.New("no se pudo leer el cuerpo de la solicitud")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return domain.Fields{}, errors.New("JSON inválido en el cuerpo de la solicitud")
	}
	return f, nil
}

// newValidator returns a validator that reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkShape applies the struct-tag rules on domain.Fields. The returned
// message lists every failing field, joined like model validation messages.
func (s *Server) checkShape(f domain.Fields) error {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gte":
			problems = append(problems, fmt.Sprintf("El campo %s debe ser mayor o igual a %s", fe.Field(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("El campo %s no es válido", fe.Field()))
		}
	}
	return &domain.ValidationError{Problems: problems}
}
