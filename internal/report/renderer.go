package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Renderer turns a normalized payload into the report HTML document used both
// as the email body and as the PDF source. Rendering is pure string template
// substitution over a fixed structure and never fails for a well-formed
// payload.
type Renderer struct {
	// now is swapped in tests to pin the generation timestamp.
	now func() time.Time
}

// NewRenderer returns a Renderer using the wall clock.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererAt returns a Renderer with a fixed clock. Test constructor.
func NewRendererAt(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

type reportView struct {
	GeneratedAt string
	Name        string
	Description string
	Symptoms    string
	Causes      string
	Treatment   string
	Treatments  []string
}

// Render produces the report HTML. The generation timestamp is captured at
// render time. An empty treatments list renders a single placeholder item.
func (r *Renderer) Render(p Payload) (string, error) {
	view := reportView{
		GeneratedAt: r.now().Format("1/2/2006, 3:04:05 PM"),
		Name:        p.Data.result(FieldName),
		Description: p.Data.result(FieldDescription),
		Symptoms:    p.Data.result(FieldSymptoms),
		Causes:      p.Data.result(FieldCauses),
		Treatment:   p.Data.result(FieldTreatment),
		Treatments:  p.Data.Treatments,
	}

	var b strings.Builder
	if err := reportTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("report: render template: %w", err)
	}
	return b.String(), nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: linear-gradient(to right, #4F46E5, #7C3AED);
            color: white;
            padding: 20px;
            border-radius: 10px;
            margin-bottom: 30px;
            text-align: center;
        }
        .section {
            background: #f9fafb;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .section-title {
            color: #4F46E5;
            font-size: 1.2em;
            margin-bottom: 10px;
            border-bottom: 2px solid #4F46E5;
            padding-bottom: 5px;
        }
        .treatment-list {
            list-style-type: none;
            padding-left: 0;
        }
        .treatment-item {
            padding: 10px;
            border-left: 3px solid #4F46E5;
            margin-bottom: 10px;
            background: white;
        }
        .footer {
            text-align: center;
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #ddd;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Skin Disease Detection Report</h1>
        <p>Generated on {{.GeneratedAt}}</p>
    </div>

    <div class="section">
        <div class="section-title">Disease Name</div>
        <p>{{.Name}}</p>
    </div>

    <div class="section">
        <div class="section-title">Description</div>
        <p>{{.Description}}</p>
    </div>

    <div class="section">
        <div class="section-title">Related Issues</div>
        <p>{{.Symptoms}}</p>
    </div>

    <div class="section">
        <div class="section-title">Risk Factors</div>
        <p>{{.Causes}}</p>
    </div>

    <div class="section">
        <div class="section-title">Treatment</div>
        <p>{{.Treatment}}</p>
    </div>

    <div class="section">
        <div class="section-title">Recommended Treatments</div>
        <ul class="treatment-list">
            {{- if .Treatments}}
            {{- range .Treatments}}
            <li class="treatment-item">{{.}}</li>
            {{- end}}
            {{- else}}
            <li class="treatment-item">No specific treatments available</li>
            {{- end}}
        </ul>
    </div>

    <div class="footer">
        <p>This is an automated report from Derma Analyzer</p>
        <p>Please consult with a healthcare professional for medical advice</p>
    </div>
</body>
</html>
`))
