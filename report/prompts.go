package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/reportgen/core"
)

// GuardPrompt is sent ahead of every report prompt. It pins the response
// shape to a single JSON object and shows the model the expected register.
const GuardPrompt = `Eres un generador de JSON estricto.
Devuelve SOLO: {"reportContent":"<markdown aquí>"} (sin texto extra, sin backticks)
que las respuesta se vena como en este ejpmlo:Reporte de Precios y Márgenes
Este reporte analiza los precios y márgenes de los productos en el catálogo.

Rango de Precios
Producto Más Caro: iphone 16 pro ($2,000,000)
Producto Más Barato: mouse logit ($35,000)
Margen Promedio
El margen promedio se calcula como ((Precio - Costo) / Precio) * 100.

mouse logit: Margen = (($35,000 - $10,000) / $35,000) * 100 = 71.43%
ipods q3: Margen = (($25,000 - $10,000) / $25,000) * 100 = 60%
iphone 16 pro: Margen = (($2,000,000 - $1,000) / $2,000,000) * 100 = 99.95%
Margen Promedio General: (71.43% + 60% + 99.95%) / 3 = 77.13%

Ítems con Margen <= 15% o Negativo
No hay ítems con margen menor o igual al 15% o negativo.

Advertencias y Sugerencias
Precio del iPhone: El precio del iPhone 16 pro es significativamente alto en comparación con su costo. Si bien el margen es excelente, es crucial analizar si este precio es competitivo en el mercado y si las ventas justifican el precio alto. Considere si el precio es un error de tipeo.
Stock Uniforme: Todos los productos tienen un stock de 10. Revise la gestión de inventario para optimizar los niveles de stock en función de la demanda real de cada producto. Evitar sobrestock de productos de baja rotación, e insuficiencia de stock para los de alta rotación.
Análisis de Competencia: Realizar un análisis de la competencia es crucial para asegurar que los precios sean competitivos y que los márgenes sean sostenibles. Ajuste los precios en función de la competencia para maximizar las ventas y los beneficios.`

// productsPlaceholder marks where the product block goes. Templates are not
// format strings: they carry literal percent signs.
const productsPlaceholder = "{{productos}}"

const catalogPromptTemplate = `
Genera un reporte de catálogo. Usa Markdown en "reportContent".
Secciones: Resumen, Precio promedio, Margen promedio, Stock total/promedio, 2-3 conclusiones.
Productos:
{{productos}}
`

const stockPromptTemplate = `
Genera un reporte de stock. Usa Markdown en "reportContent".
Secciones: Sin stock, Top 3-5 por stock, Valor de inventario (stock*costo), 2-3 recomendaciones.
Productos:
{{productos}}
`

const pricingPromptTemplate = `
Genera un reporte de precios y márgenes. Usa Markdown en "reportContent".
Secciones: Rango de precios (más caro/barato), Margen promedio, Ítems con margen <=15% o negativo, 2-3 advertencias/sugerencias.
Productos:
{{productos}}
`

// BuildPrompt renders the report prompt for a request. Every product is
// listed in input order; the surrounding template is chosen by report type.
func BuildPrompt(req *core.Request) string {
	lines := make([]string, len(req.Products))
	for i := range req.Products {
		lines[i] = formatProduct(&req.Products[i])
	}
	products := strings.Join(lines, "\n")

	var template string
	switch req.ReportType.Normalize() {
	case core.ReportTypeCatalog:
		template = catalogPromptTemplate
	case core.ReportTypeStock:
		template = stockPromptTemplate
	default:
		template = pricingPromptTemplate
	}
	return strings.TrimSpace(strings.Replace(template, productsPlaceholder, products, 1))
}

// Fingerprint identifies the rendered prompt of a request. Requests that
// render to the same prompt share a fingerprint.
func Fingerprint(req *core.Request) core.ID {
	return core.IDFromContent(BuildPrompt(req))
}

func formatProduct(p *core.Product) string {
	visible := "No"
	if p.Visible {
		visible = "Sí"
	}
	return fmt.Sprintf("- Nombre: %s, Precio: $%s, Costo: $%s, Stock: %d, Visible: %s",
		p.Name, formatNumber(p.Price), formatNumber(p.Cost), p.Stock, visible)
}

// formatNumber prints the shortest decimal form: 35000, 12.5, 0.1.
// Magnitudes at or above 1e21 and below 1e-6 use exponent notation (1e+21,
// 5e-7), and negative zero prints as 0.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
