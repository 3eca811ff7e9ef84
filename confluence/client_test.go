package confluence_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/confluence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	page := &snowgrid.Page{
		Title:    "Weekend Change Summary",
		SpaceKey: "OPS",
		ParentID: "12345",
		Body:     "<h2>Weekend Change Summary</h2>",
	}

	t.Run("creates the page and returns its URL", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/rest/api/content", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "bot", user)
			assert.Equal(t, "token", pass)

			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))

			io.WriteString(w, `{"id":"98765","_links":{"base":"https://wiki.example.com","webui":"/display/OPS/Weekend+Change+Summary"}}`)
		}))
		defer srv.Close()

		client := confluence.NewClient(srv.URL, "bot", "token")
		url, err := client.Publish(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, "https://wiki.example.com/display/OPS/Weekend+Change+Summary", url)

		assert.Equal(t, "page", got["type"])
		assert.Equal(t, "Weekend Change Summary", got["title"])
		assert.Equal(t, map[string]any{"key": "OPS"}, got["space"])
		assert.Equal(t, []any{map[string]any{"id": "12345"}}, got["ancestors"])

		storage := got["body"].(map[string]any)["storage"].(map[string]any)
		assert.Equal(t, "storage", storage["representation"])
		assert.Equal(t, page.Body, storage["value"])
	})

	t.Run("omits ancestors without a parent", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var got map[string]any
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			assert.NotContains(t, got, "ancestors")

			io.WriteString(w, `{"id":"1"}`)
		}))
		defer srv.Close()

		client := confluence.NewClient(srv.URL, "bot", "token")
		orphan := *page
		orphan.ParentID = ""
		url, err := client.Publish(context.Background(), &orphan)

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/pages/viewpage.action?pageId=1", url)
	})

	t.Run("maps 401 to an unauthorized error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := confluence.NewClient(srv.URL, "bot", "bad")
		_, err := client.Publish(context.Background(), page)

		assert.Equal(t, snowgrid.EUNAUTHORIZED, snowgrid.ErrorCode(err))
	})

	t.Run("maps a duplicate title to a conflict error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"A page with this title already exists"}`)
		}))
		defer srv.Close()

		client := confluence.NewClient(srv.URL, "bot", "token")
		_, err := client.Publish(context.Background(), page)

		assert.Equal(t, snowgrid.ECONFLICT, snowgrid.ErrorCode(err))
	})

	t.Run("rejects an invalid page before any request", func(t *testing.T) {
		t.Parallel()

		client := confluence.NewClient("http://unused", "bot", "token")
		_, err := client.Publish(context.Background(), &snowgrid.Page{})

		assert.Equal(t, snowgrid.EINVALID, snowgrid.ErrorCode(err))
	})
}
