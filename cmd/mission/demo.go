package main

import (
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/sheets"
)

// demoFetcher serves sample Numbers and Charts tables for the configured
// ranges so the dashboard can be tried without credentials.
func demoFetcher(cfg sheets.Config) *sheets.StaticFetcher {
	f := sheets.NewStaticFetcher()
	f.SetTable(cfg.Numbers(), model.NewTableFromStrings([][]string{
		{"ISV Score", "ISV Goal", "Mayapur Score"},
		{"12500", "20000", "15000"},
	}))
	f.SetTable(cfg.Charts(), model.NewTableFromStrings([][]string{
		{"MetricName", "MetricValue"},
		{"Maha Big", "5400"},
		{"Big", "3100"},
		{"Medium", "2200"},
		{"Small", "1300"},
		{"Sets", "500"},
	}))
	return f
}
