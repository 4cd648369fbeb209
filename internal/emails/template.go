// Package emails renders the notification bodies the dispatcher delivers.
// Rendering is kept apart from dispatch so services can build a message
// without knowing how it travels.
package emails

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// BudgetAlertData feeds the budget threshold alert template.
type BudgetAlertData struct {
	UserName       string
	AccountName    string
	PercentageUsed decimal.Decimal
	BudgetAmount   decimal.Decimal
	TotalExpenses  decimal.Decimal
}

// MonthlyReportData feeds the monthly statistics report template.
type MonthlyReportData struct {
	UserName   string
	MonthLabel string // e.g. "January 2024"
	Stats      domain.MonthlyStats
	Insights   []string
}

var budgetAlertTmpl = template.Must(template.New("budget-alert").Parse(`<html><body>
<h2>Budget Alert</h2>
<p>Hello {{.UserName}},</p>
<p>You have used <strong>{{.PercentageUsed}}%</strong> of your monthly budget on account <strong>{{.AccountName}}</strong>.</p>
<ul>
<li>Budget: {{.BudgetAmount}}</li>
<li>Spent so far: {{.TotalExpenses}}</li>
<li>Remaining: {{.Remaining}}</li>
</ul>
</body></html>`))

var monthlyReportTmpl = template.Must(template.New("monthly-report").Parse(`<html><body>
<h2>Your Monthly Financial Report - {{.MonthLabel}}</h2>
<p>Hello {{.UserName}},</p>
<ul>
<li>Total income: {{.TotalIncome}}</li>
<li>Total expenses: {{.TotalExpenses}}</li>
<li>Net: {{.Net}}</li>
<li>Transactions: {{.TransactionCount}}</li>
</ul>
{{if .Categories}}<h3>Expenses by category</h3>
<ul>{{range .Categories}}<li>{{.Name}}: {{.Amount}}</li>{{end}}</ul>{{end}}
{{if .Insights}}<h3>Insights</h3>
<ul>{{range .Insights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body></html>`))

// RenderBudgetAlert renders the budget threshold alert body.
func RenderBudgetAlert(data BudgetAlertData) string {
	var b strings.Builder
	err := budgetAlertTmpl.Execute(&b, struct {
		UserName       string
		AccountName    string
		PercentageUsed string
		BudgetAmount   string
		TotalExpenses  string
		Remaining      string
	}{
		UserName:       data.UserName,
		AccountName:    data.AccountName,
		PercentageUsed: data.PercentageUsed.StringFixed(1),
		BudgetAmount:   data.BudgetAmount.StringFixed(2),
		TotalExpenses:  data.TotalExpenses.StringFixed(2),
		Remaining:      data.BudgetAmount.Sub(data.TotalExpenses).StringFixed(2),
	})
	if err != nil {
		// Templates are static and parsed at init; execution over plain
		// strings cannot realistically fail, but degrade to a bare message.
		return fmt.Sprintf("You have used %s%% of your monthly budget.", data.PercentageUsed.StringFixed(1))
	}
	return b.String()
}

type categoryLine struct {
	Name   string
	Amount string
}

// RenderMonthlyReport renders the monthly statistics report body. Category
// lines are sorted by amount, largest first, for a stable and readable list.
func RenderMonthlyReport(data MonthlyReportData) string {
	categories := make([]categoryLine, 0, len(data.Stats.ByCategory))
	type catAmount struct {
		name   string
		amount decimal.Decimal
	}
	sorted := make([]catAmount, 0, len(data.Stats.ByCategory))
	for name, amount := range data.Stats.ByCategory {
		sorted = append(sorted, catAmount{name: name, amount: amount})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].amount.Equal(sorted[j].amount) {
			return sorted[i].amount.GreaterThan(sorted[j].amount)
		}
		return sorted[i].name < sorted[j].name
	})
	for _, c := range sorted {
		categories = append(categories, categoryLine{Name: c.name, Amount: c.amount.StringFixed(2)})
	}

	var b strings.Builder
	err := monthlyReportTmpl.Execute(&b, struct {
		UserName         string
		MonthLabel       string
		TotalIncome      string
		TotalExpenses    string
		Net              string
		TransactionCount int
		Categories       []categoryLine
		Insights         []string
	}{
		UserName:         data.UserName,
		MonthLabel:       data.MonthLabel,
		TotalIncome:      data.Stats.TotalIncome.StringFixed(2),
		TotalExpenses:    data.Stats.TotalExpenses.StringFixed(2),
		Net:              data.Stats.TotalIncome.Sub(data.Stats.TotalExpenses).StringFixed(2),
		TransactionCount: data.Stats.TransactionCount,
		Categories:       categories,
		Insights:         data.Insights,
	})
	if err != nil {
		return fmt.Sprintf("Your financial report for %s is ready.", data.MonthLabel)
	}
	return b.String()
}
