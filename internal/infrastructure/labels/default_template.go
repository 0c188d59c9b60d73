package labels

import "html/template"

// defaultTemplate renders one 100x150mm label per order. Layout is a
// terminal rendering concern; everything business-relevant arrives
// precomputed in LabelData.
var defaultTemplate = template.Must(template.New("labels").Funcs(funcMap).Parse(defaultTemplateContent))

const defaultTemplateContent = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: 100mm 150mm; margin: 0; }
  body { font-family: Arial, sans-serif; margin: 0; }
  .label { width: 100mm; height: 150mm; padding: 6mm; box-sizing: border-box; page-break-after: always; }
  .platform { font-size: 14pt; font-weight: bold; text-transform: uppercase; }
  .customer { font-size: 12pt; margin-top: 4mm; }
  .address { font-size: 10pt; color: #333; }
  .barcode { font-family: 'Libre Barcode 39', monospace; font-size: 28pt; margin-top: 6mm; text-align: center; }
  .barcode-value { font-size: 10pt; text-align: center; letter-spacing: 2px; }
  .no-tracking { font-size: 9pt; text-align: center; color: #b00; font-weight: bold; }
  .meta { font-size: 9pt; margin-top: 4mm; }
  .meta td { padding: 1mm 2mm 1mm 0; }
</style>
</head>
<body>
{{- range .Labels}}
<div class="label">
  <div class="platform">{{.Platform}}</div>
  <div class="customer">{{.CustomerName}}</div>
  <div class="address">{{.AddressFragment}}</div>
  <div class="barcode">*{{.Barcode}}*</div>
  <div class="barcode-value">{{.Barcode}}</div>
  {{- if not .OfficialTracking}}
  <div class="no-tracking">NO OFFICIAL TRACKING YET</div>
  {{- end}}
  <table class="meta">
    <tr><td>Order</td><td>{{.OrderNumber}}</td></tr>
    <tr><td>Product</td><td>{{default "-" .ProductCode}} {{.ProductName}}</td></tr>
    <tr><td>Desi</td><td>{{formatDesi .TotalDesi}}</td></tr>
  </table>
</div>
{{- end}}
</body>
</html>
`
