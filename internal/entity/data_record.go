package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// DataRecord is one crawled supplier listing. The console only displays it.
type DataRecord struct {
	ID            int64     `json:"id"`
	CompanyName   string    `json:"companyName"`
	ProductTitle  string    `json:"productTitle"`
	ContactPerson string    `json:"contactPerson"`
	LandlinePhone string    `json:"landlinePhone"`
	MobilePhone   string    `json:"mobilePhone"`
	Address       string    `json:"address"`
	Fax           string    `json:"fax"`
	PageNumber    int       `json:"pageNumber"` // crawl page the record came from
	CrawlTime     LocalTime `json:"crawlTime"`
	SourceURL     string    `json:"sourceUrl"`
}

// DataStats summarises the crawled records held by the backend.
type DataStats struct {
	TotalCount int64
	// PageStats maps a crawl page number to the records found on it.
	PageStats map[int]int64
}

type dataStatsJSON struct {
	TotalCount int64            `json:"totalCount"`
	PageStats  map[string]int64 `json:"pageStats,omitempty"`
}

func (s *DataStats) UnmarshalJSON(data []byte) error {
	var raw dataStatsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.TotalCount = raw.TotalCount
	s.PageStats = make(map[int]int64, len(raw.PageStats))
	for key, count := range raw.PageStats {
		page, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("page stats key %q: %w", key, err)
		}
		s.PageStats[page] = count
	}
	return nil
}

func (s DataStats) MarshalJSON() ([]byte, error) {
	raw := dataStatsJSON{TotalCount: s.TotalCount, PageStats: make(map[string]int64, len(s.PageStats))}
	for page, count := range s.PageStats {
		raw.PageStats[strconv.Itoa(page)] = count
	}
	return json.Marshal(raw)
}

// PageNumbers lists the crawl pages that have records, ascending.
func (s DataStats) PageNumbers() []int {
	pages := make([]int, 0, len(s.PageStats))
	for page := range s.PageStats {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}
