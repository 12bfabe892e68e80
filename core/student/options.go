package student

import (
	"context"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/collegedesk/console/core"
)

// EmployeePageSize is how many employees one option page holds.
const EmployeePageSize = 3

// minCollegeRatio is the similarity below which a college that does not
// contain the search text is dropped.
const minCollegeRatio = 0.5

type EmployeeQuery struct {
	Limit  int
	Page   int
	Search string
}

type EmployeeName struct {
	ID   core.FlexString `json:"id"`
	Name string          `json:"name"`
}

type EmployeePage struct {
	Results []EmployeeName `json:"results"`
	Count   int            `json:"count"`
}

// OptionPage is one page of an async select.
type OptionPage struct {
	Options []Option `json:"options"`
	HasMore bool     `json:"has_more"`
	Next    int      `json:"next,omitempty"`
}

// OptionsBackend lists the names behind the async selects.
type OptionsBackend interface {
	ListCollegeNames(ctx context.Context) ([]string, error)
	ListEmployeeNames(ctx context.Context, q EmployeeQuery) (EmployeePage, error)
}

// Options loads select options. Failures are logged and yield an empty page.
type Options struct {
	backend OptionsBackend
	log     core.Logger
}

func NewOptions(backend OptionsBackend, logger core.Logger) *Options {
	return &Options{backend: backend, log: logger}
}

// Colleges lists college names, best matches first when search is set.
func (o *Options) Colleges(ctx context.Context, search string) OptionPage {
	names, err := o.backend.ListCollegeNames(ctx)
	if err != nil {
		o.log.Error("failed to load college options", err)
		return OptionPage{Options: []Option{}}
	}

	names = rankNames(names, search)
	opts := make([]Option, 0, len(names))
	for _, n := range names {
		opts = append(opts, Option{Label: n, Value: n})
	}
	return OptionPage{Options: opts}
}

// Employees loads one page of employees; pages start at 1.
func (o *Options) Employees(ctx context.Context, search string, page int) OptionPage {
	if page < 1 {
		page = 1
	}
	res, err := o.backend.ListEmployeeNames(ctx, EmployeeQuery{Limit: EmployeePageSize, Page: page, Search: search})
	if err != nil {
		o.log.Error("failed to load employee options", err)
		return OptionPage{Options: []Option{}}
	}

	opts := make([]Option, 0, len(res.Results))
	for _, e := range res.Results {
		opts = append(opts, Option{Label: e.Name, Value: e.ID.String()})
	}
	pages := (res.Count + EmployeePageSize - 1) / EmployeePageSize
	return OptionPage{
		Options: opts,
		HasMore: pages > page,
		Next:    page + 1,
	}
}

type rankedName struct {
	name     string
	contains bool
	ratio    float64
}

func rankNames(names []string, search string) []string {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return names
	}
	want := strings.Split(search, "")

	ranked := make([]rankedName, 0, len(names))
	for _, n := range names {
		lower := strings.ToLower(n)
		m := difflib.NewMatcher(want, strings.Split(lower, ""))
		r := rankedName{name: n, contains: strings.Contains(lower, search), ratio: m.QuickRatio()}
		if !r.contains && r.ratio < minCollegeRatio {
			continue
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].contains != ranked[j].contains {
			return ranked[i].contains
		}
		return ranked[i].ratio > ranked[j].ratio
	})

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}
	return out
}
