package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/j2kenton/jobsift/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "zero values get defaults",
			req:          pagination.PageRequest{},
			wantPage:     1,
			wantPageSize: 20,
		},
		{
			name:         "negative page clamped",
			req:          pagination.PageRequest{Page: -3, PageSize: 10},
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "oversized page size clamped to max",
			req:          pagination.PageRequest{Page: 2, PageSize: 5000},
			wantPage:     2,
			wantPageSize: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig())
			if tt.req.Page != tt.wantPage {
				t.Errorf("page: got %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("page size: got %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "50")
	values.Set("search", "acme")
	values.Set("sort", "-enqueued_at")

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 50 {
		t.Errorf("page/page_size: got %d/%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "acme" {
		t.Errorf("search: got %v", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "enqueued_at" || !req.Sort[0].Descending {
		t.Errorf("sort: got %v", req.Sort)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var req pagination.PageRequest
		if err := json.Unmarshal([]byte(`{"sort": "company,-updated_at"}`), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(req.Sort) != 2 || req.Sort[0].Field != "company" || !req.Sort[1].Descending {
			t.Errorf("sort: got %v", req.Sort)
		}
	})

	t.Run("array form", func(t *testing.T) {
		var req pagination.PageRequest
		payload := `{"sort": [{"Field": "company", "Descending": true}]}`
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(req.Sort) != 1 || req.Sort[0].Field != "company" || !req.Sort[0].Descending {
			t.Errorf("sort: got %v", req.Sort)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 100, 20, 5},
		{"remainder rounds up", 101, 20, 6},
		{"empty result is one page", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantTotalPages {
				t.Errorf("total pages: got %d, want %d", res.TotalPages, tt.wantTotalPages)
			}
		})
	}

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		res := pagination.NewPageResult[string](nil, 0, 1, 20)
		if res.Data == nil {
			t.Error("data is nil")
		}
	})
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg pagination.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
			t.Errorf("defaults: got %+v", cfg)
		}
	})

	t.Run("default above max rejected", func(t *testing.T) {
		cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("JOBSIFT_TEST_PAGE_SIZE", "35")
		var cfg pagination.Config
		env := pagination.ConfigEnv{DefaultPageSize: "JOBSIFT_TEST_PAGE_SIZE"}
		if err := cfg.Finalize(&env); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.DefaultPageSize != 35 {
			t.Errorf("default page size: got %d, want 35", cfg.DefaultPageSize)
		}
	})
}
