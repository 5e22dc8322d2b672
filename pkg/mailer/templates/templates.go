package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names
const (
	ReservationConfirmed = "reservation_confirmed"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	PhoneNumber    string `json:"PhoneNumber"`
	Type           string `json:"Type"`

	RestaurantName    string `json:"RestaurantName"`
	RestaurantAddress string `json:"RestaurantAddress"`
	AppName           string `json:"AppName"`
	SupportURL        string `json:"SupportURL"`

	ReservationID string `json:"ReservationID"`
	Date          string `json:"Date"`     // YYYY-MM-DD
	DateText      string `json:"DateText"` // Friday, 01 March 2024
}

// ToMap converts EmailData to the map carried in EmailJob.Data, so a job
// survives the trip through the queue with the same keys.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

// bundle is the parsed subject, text and html parts of one email.
type bundle struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	bundlesOnce sync.Once
	bundles     map[string]*bundle
	bundlesErr  error
)

func loadBundles() (map[string]*bundle, error) {
	bundlesOnce.Do(func() {
		funcs := map[string]any{"default": defaultFn, "upper": strings.ToUpper}
		out := make(map[string]*bundle)
		for _, name := range []string{ReservationConfirmed} {
			b := &bundle{}
			var err error
			if b.subject, err = texttpl.New("").Funcs(funcs).ParseFS(FS, name+".subject.tmpl"); err != nil {
				bundlesErr = fmt.Errorf("parse %s subject: %w", name, err)
				return
			}
			if b.text, err = texttpl.New("").Funcs(funcs).ParseFS(FS, name+".text.tmpl"); err != nil {
				bundlesErr = fmt.Errorf("parse %s text: %w", name, err)
				return
			}
			if b.html, err = htmpl.New("").Funcs(funcs).ParseFS(FS, name+".html.tmpl"); err != nil {
				bundlesErr = fmt.Errorf("parse %s html: %w", name, err)
				return
			}
			out[name] = b
		}
		bundles = out
	})
	return bundles, bundlesErr
}

func execText(t *texttpl.Template, file string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces subject, text and html for the named email.
// The subject is trimmed to a single line.
func Render(name string, data any) (subject string, text string, html string, err error) {
	all, err := loadBundles()
	if err != nil {
		return "", "", "", err
	}
	b, ok := all[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	if subject, err = execText(b.subject, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(b.text, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err = b.html.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec %q: %w", name+".html.tmpl", err)
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}
