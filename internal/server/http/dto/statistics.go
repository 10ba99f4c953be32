package dto

import "github.com/polkiloo/orderdesk/internal/domain/model"

// StatisticsResponse mirrors the dashboard chart payload.
type StatisticsResponse struct {
	DailySales []DailySales  `json:"ventasDiarias"`
	ByStatus   []StatusCount `json:"pedidosPorEstado"`
	TopItems   []ItemCount   `json:"productosMasVendidos"`
}

type DailySales struct {
	Date  string `json:"fecha"`
	Count int    `json:"ventas"`
}

type StatusCount struct {
	Status string `json:"estado"`
	Count  int    `json:"cantidad"`
}

type ItemCount struct {
	Item  string `json:"producto"`
	Count int    `json:"cantidad"`
}

// FromStatistics converts a snapshot.
func FromStatistics(s model.Statistics) StatisticsResponse {
	resp := StatisticsResponse{
		DailySales: make([]DailySales, 0, len(s.DailySales)),
		ByStatus:   make([]StatusCount, 0, len(s.ByStatus)),
		TopItems:   make([]ItemCount, 0, len(s.TopItems)),
	}
	for _, d := range s.DailySales {
		resp.DailySales = append(resp.DailySales, DailySales{Date: d.Date, Count: d.Count})
	}
	for _, st := range s.ByStatus {
		resp.ByStatus = append(resp.ByStatus, StatusCount{Status: st.Status, Count: st.Count})
	}
	for _, it := range s.TopItems {
		resp.TopItems = append(resp.TopItems, ItemCount{Item: it.Item, Count: it.Count})
	}
	return resp
}
