package templates

import (
	"context"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

// refreshFilters reloads the salesperson list and every view after a
// region or year change.
const refreshFilters = "@get('/sse/salespeople');@get('/sse/refresh')"

// PageData is everything the first render of the dashboard needs.
type PageData struct {
	Title       string
	Regions     []string
	MinYear     int
	MaxYear     int
	TopN        int
	Salespeople []string
	Summary     *models.Summary
	TopLocs     []models.LocationSummary

	TopByRevenue []models.SalespersonSummary
	TopByCount   []models.SalespersonSummary
}

// signals is the initial datastar signal state for the page.
func (d PageData) signals() map[string]any {
	region := ""
	if len(d.Regions) > 0 {
		region = d.Regions[0]
	}
	return map[string]any{
		"region":      region,
		"allYears":    true,
		"year":        d.MaxYear,
		"salespeople": []string{},
		"topN":        d.TopN,
		"tab":         Tabs[0].ID,
		"chartData":   nil,
	}
}

// Tab identifiers; metric cards are rendered once per tab.
var Tabs = []struct{ ID, Label string }{
	{"revenue", "Receita"},
	{"sales", "Quantidade de vendas"},
	{"salespeople", "Vendedores"},
}

func tabActive(id string) string {
	return "$tab == '" + id + "'"
}

func isSelected(selected []string, name string) bool {
	return slices.Contains(selected, name)
}

// RenderString renders c into a string, for SSE element patches.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const pageStyle = `
body{font-family:system-ui,sans-serif;margin:0;padding:1rem;background:#f6f7fb}
.layout{display:grid;grid-template-columns:260px 1fr;gap:1rem}
aside{background:#fff;padding:1rem;border-radius:8px}
aside label{display:block;margin:.75rem 0}
.tabs button{padding:.5rem 1rem;border:0;background:#e3e6ef;cursor:pointer}
.tabs button.active{background:#3b5bdb;color:#fff}
.metrics{display:flex;gap:1rem;margin:1rem 0}
.metric{background:#fff;padding:1rem;border-radius:8px;min-width:200px}
.metric strong{display:block;font-size:1.6rem}
.grid{display:grid;grid-template-columns:1fr 1fr;gap:1rem}
.modern-table{border-collapse:collapse;background:#fff;margin-top:1rem}
.modern-table td,.modern-table th{padding:.4rem .8rem;border-bottom:1px solid #eee}
.error{background:#ffe3e3;color:#c92a2a;padding:.75rem;border-radius:8px}
`

const chartBootstrap = `
const charts = {};
function drawChart(id, type, labels, values, label) {
  const el = document.getElementById(id);
  if (!el || !window.Chart) return;
  if (charts[id]) charts[id].destroy();
  charts[id] = new Chart(el, {type: type, data: {labels: labels, datasets: [{label: label, data: values}]},
    options: {indexAxis: type === 'bar-h' ? 'y' : 'x'}});
}
window.renderCharts = function (d) {
  if (!d) return;
  drawChart('chart-map', 'bubble', [], [], 'Receita por estado');
  if (charts['chart-map']) {
    charts['chart-map'].data.datasets[0].data = (d.locations || []).map(l => ({x: l.lon, y: l.lat, r: Math.max(3, Math.sqrt(l.revenue) / 100)}));
    charts['chart-map'].update();
  }
  drawChart('chart-monthly', 'line', (d.monthly || []).map(m => m.month_name + ' ' + m.year), (d.monthly || []).map(m => m.revenue), 'Receita mensal');
  drawChart('chart-locations', 'bar', (d.topLocations || []).map(l => l.location), (d.topLocations || []).map(l => l.revenue), 'Top estados (receita)');
  drawChart('chart-categories', 'bar', (d.categories || []).map(c => c.category), (d.categories || []).map(c => c.revenue), 'Receita por categoria');
  drawChart('chart-seller-revenue', 'bar', (d.topByRevenue || []).map(s => s.salesperson), (d.topByRevenue || []).map(s => s.revenue), 'Top vendedores (receita)');
  drawChart('chart-seller-count', 'bar', (d.topByCount || []).map(s => s.salesperson), (d.topByCount || []).map(s => s.sales), 'Top vendedores (quantidade de vendas)');
};
`
