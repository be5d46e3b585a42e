package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParams_Values(t *testing.T) {
	p := ListParams{
		Page:     2,
		PageSize: 50,
		Search:   "visa",
		Ordering: Ordering("correspondence_date", true),
		Filters: map[string][]string{
			"priority":      {"high", "low"},
			"contact__name": {"ASE"},
			"direction":     {},
		},
		Extra: url.Values{"correspondence_type": {"3"}},
	}

	v := p.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "50", v.Get("page_size"))
	assert.Equal(t, "visa", v.Get("search"))
	assert.Equal(t, "-correspondence_date", v.Get("ordering"))
	assert.Equal(t, "high,low", v.Get("priority__in"))
	assert.Equal(t, "ASE", v.Get("contact__name__in"))
	assert.False(t, v.Has("direction__in"))
	assert.Equal(t, "3", v.Get("correspondence_type"))
}

func TestListParams_ValuesEscapeCommas(t *testing.T) {
	p := ListParams{Filters: map[string][]string{
		"contact__name": {"Smith, John", "ASE"},
	}}
	assert.Equal(t, `Smith\, John,ASE`, p.Values().Get("contact__name__in"))
}

func TestListParams_ZeroIsEmpty(t *testing.T) {
	assert.Empty(t, ListParams{}.Values())
}

func TestOrdering(t *testing.T) {
	assert.Equal(t, "subject", Ordering("subject", false))
	assert.Equal(t, "-subject", Ordering("subject", true))
	assert.Equal(t, "", Ordering("", true))
}

func TestDecodePage_AcceptsBareArray(t *testing.T) {
	p, err := decodePage[models.Contact]([]byte(` [{"contact_id": 1, "name": "ASE"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, "ASE", p.Results[0].Name)
	assert.False(t, p.HasNext())

	p, err = decodePage[models.Contact]([]byte(`{"count": 0, "next": null, "results": null}`))
	require.NoError(t, err)
	assert.NotNil(t, p.Results)
}

func TestAll_FollowsNextLinks(t *testing.T) {
	var srvURL string
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		page := r.URL.Query().Get("page")
		switch page {
		case "":
			fmt.Fprintf(w, `{"count": 3, "next": "%s/api/contacts/?page=2", "results": [{"contact_id": 1}]}`, srvURL)
		case "2":
			fmt.Fprintf(w, `{"count": 3, "next": "%s/api/contacts/?page=3", "results": [{"contact_id": 2}]}`, srvURL)
		default:
			fmt.Fprint(w, `{"count": 3, "next": null, "results": [{"contact_id": 3}]}`)
		}
	})
	srvURL = c.baseURL[:len(c.baseURL)-len("/api")]

	got, err := c.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[2].ID)
	assert.Equal(t, 3, hits)
}
