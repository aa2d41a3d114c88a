package controllers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// printTemplate renders an order as a standalone printable page. The admin
// panel opens it in a new tab and triggers the browser's print dialog.
var printTemplate = template.Must(template.New("order_print").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Pedido #{{.ID}}</title>
<style>
  body { font-family: sans-serif; margin: 2rem; color: #222; }
  h1 { font-size: 1.4rem; border-bottom: 2px solid #222; padding-bottom: .4rem; }
  table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
  th, td { border: 1px solid #999; padding: .4rem .6rem; text-align: left; }
  th { background: #eee; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 1rem; text-align: right; }
  .totals strong { font-size: 1.1rem; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Pedido #{{.ID}} — {{.CustomerName}}</h1>
<p>
  {{if .Email}}{{.Email}}<br>{{end}}
  {{if .Phone}}{{.Phone}}<br>{{end}}
  {{if .Address}}{{.Address}}<br>{{end}}
  {{if .DeliveryDate}}Entrega: {{.DeliveryDate.Format "02/01/2006"}}<br>{{end}}
</p>
{{if .Comment}}<p><em>{{.Comment}}</em></p>{{end}}
<table>
<thead>
<tr><th>Código</th><th>Producto</th><th class="num">Cant.</th><th class="num">Precio</th><th class="num">Subtotal</th></tr>
</thead>
<tbody>
{{range .Items}}
<tr>
  <td>{{.Code}}</td>
  <td>{{.Name}}</td>
  <td class="num">{{.Quantity}}</td>
  <td class="num">${{printf "%.2f" .UnitPrice}}</td>
  <td class="num">${{printf "%.2f" .LineTotal}}</td>
</tr>
{{end}}
</tbody>
</table>
<div class="totals">
  Subtotal: ${{printf "%.2f" .Subtotal}}<br>
  Envío: ${{printf "%.2f" .ShippingCharged}}<br>
  <strong>Total: ${{printf "%.2f" .Total}}</strong>
</div>
</body>
</html>
`))

// PrintOrder handles GET /api/v1/orders/:id/print - printable HTML rendering
func PrintOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := printTemplate.Execute(c.Writer, order); err != nil {
		// Headers are already written; attach the error for the gin logger.
		_ = c.Error(err)
	}
}
