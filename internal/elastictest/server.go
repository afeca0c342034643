// Package elastictest runs an in-process stand-in for an Elasticsearch
// node so store tests exercise real HTTP round trips without a cluster.
// It implements just the surface the stores touch: index existence and
// creation, single-document reads and writes, term/bool/nested search,
// delete-by-query, and multi-get.
package elastictest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/olivere/elastic/v7"
)

type index struct {
	docs  map[string]map[string]interface{}
	order []string
}

// Server is a fake single-node cluster. All state is in memory and
// guarded by one mutex; every write is immediately visible, which
// matches the refresh=true behavior the stores rely on.
type Server struct {
	mu      sync.Mutex
	srv     *httptest.Server
	indices map[string]*index
}

// New starts a fake node and returns it with an elastic client pointed
// at it. Both are shut down when the test finishes.
func New(t *testing.T) (*Server, *elastic.Client) {
	t.Helper()

	s := &Server{indices: make(map[string]*index)}
	s.srv = httptest.NewServer(s)
	t.Cleanup(s.srv.Close)

	client, err := elastic.NewSimpleClient(elastic.SetURL(s.srv.URL))
	if err != nil {
		t.Fatalf("connect test client: %v", err)
	}
	return s, client
}

// URL returns the base URL of the fake node.
func (s *Server) URL() string { return s.srv.URL }

// DocCount returns the number of documents in the named index.
func (s *Server) DocCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indices[name]
	if !ok {
		return 0
	}
	return len(idx.docs)
}

// HasIndex reports whether the named index has been created.
func (s *Server) HasIndex(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.indices[name]
	return ok
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] == "_mget":
		s.multiGet(w, r)
	case len(parts) == 1 && r.Method == http.MethodHead:
		s.indexExists(w, parts[0])
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.createIndex(w, parts[0])
	case len(parts) == 2 && parts[1] == "_search":
		s.search(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "_delete_by_query":
		s.deleteByQuery(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "_doc" && (r.Method == http.MethodPut || r.Method == http.MethodPost):
		s.putDoc(w, r, parts[0], parts[2])
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodGet:
		s.getDoc(w, parts[0], parts[2])
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodDelete:
		s.deleteDoc(w, parts[0], parts[2])
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  map[string]interface{}{"type": "unsupported_operation", "reason": r.Method + " " + r.URL.Path},
			"status": http.StatusBadRequest,
		})
	}
}

func (s *Server) indexExists(w http.ResponseWriter, name string) {
	if _, ok := s.indices[name]; ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) createIndex(w http.ResponseWriter, name string) {
	if _, ok := s.indices[name]; ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"type":   "resource_already_exists_exception",
				"reason": fmt.Sprintf("index [%s] already exists", name),
			},
			"status": http.StatusBadRequest,
		})
		return
	}
	s.indices[name] = &index{docs: make(map[string]map[string]interface{})}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"acknowledged":        true,
		"shards_acknowledged": true,
		"index":               name,
	})
}

func (s *Server) putDoc(w http.ResponseWriter, r *http.Request, name, id string) {
	idx, ok := s.indices[name]
	if !ok {
		// Auto-create on write like a real node with dynamic mapping.
		idx = &index{docs: make(map[string]map[string]interface{})}
		s.indices[name] = idx
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  map[string]interface{}{"type": "mapper_parsing_exception", "reason": err.Error()},
			"status": http.StatusBadRequest,
		})
		return
	}

	result := "updated"
	if _, exists := idx.docs[id]; !exists {
		idx.order = append(idx.order, id)
		result = "created"
	}
	idx.docs[id] = doc

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"_index":   name,
		"_id":      id,
		"_version": 1,
		"result":   result,
		"_shards":  map[string]interface{}{"total": 1, "successful": 1, "failed": 0},
	})
}

func (s *Server) getDoc(w http.ResponseWriter, name, id string) {
	idx, ok := s.indices[name]
	if ok {
		if doc, found := idx.docs[id]; found {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"_index":   name,
				"_id":      id,
				"_version": 1,
				"found":    true,
				"_source":  doc,
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"_index": name,
		"_id":    id,
		"found":  false,
	})
}

func (s *Server) deleteDoc(w http.ResponseWriter, name, id string) {
	idx, ok := s.indices[name]
	if ok {
		if _, found := idx.docs[id]; found {
			delete(idx.docs, id)
			idx.removeFromOrder(id)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"_index":   name,
				"_id":      id,
				"_version": 1,
				"result":   "deleted",
				"_shards":  map[string]interface{}{"total": 1, "successful": 1, "failed": 0},
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"_index": name,
		"_id":    id,
		"result": "not_found",
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, name string) {
	var body struct {
		Query map[string]interface{} `json:"query"`
		Size  *int                   `json:"size"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	size := 10
	if body.Size != nil {
		size = *body.Size
	}

	var hits []map[string]interface{}
	total := 0
	if idx, ok := s.indices[name]; ok {
		for _, id := range idx.order {
			doc := idx.docs[id]
			if !matches(doc, body.Query) {
				continue
			}
			total++
			if len(hits) < size {
				hits = append(hits, map[string]interface{}{
					"_index":  name,
					"_id":     id,
					"_score":  1.0,
					"_source": doc,
				})
			}
		}
	}
	if hits == nil {
		hits = []map[string]interface{}{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took":      1,
		"timed_out": false,
		"_shards":   map[string]interface{}{"total": 1, "successful": 1, "skipped": 0, "failed": 0},
		"hits": map[string]interface{}{
			"total":     map[string]interface{}{"value": total, "relation": "eq"},
			"max_score": 1.0,
			"hits":      hits,
		},
	})
}

func (s *Server) deleteByQuery(w http.ResponseWriter, r *http.Request, name string) {
	var body struct {
		Query map[string]interface{} `json:"query"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	deleted := 0
	if idx, ok := s.indices[name]; ok {
		var doomed []string
		for id, doc := range idx.docs {
			if matches(doc, body.Query) {
				doomed = append(doomed, id)
			}
		}
		for _, id := range doomed {
			delete(idx.docs, id)
			idx.removeFromOrder(id)
			deleted++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took":                   1,
		"timed_out":              false,
		"total":                  deleted,
		"deleted":                deleted,
		"batches":                1,
		"version_conflicts":      0,
		"noops":                  0,
		"retries":                map[string]interface{}{"bulk": 0, "search": 0},
		"throttled_millis":       0,
		"requests_per_second":    -1.0,
		"throttled_until_millis": 0,
		"failures":               []interface{}{},
	})
}

func (s *Server) multiGet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Docs []struct {
			Index string `json:"_index"`
			ID    string `json:"_id"`
		} `json:"docs"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	docs := make([]map[string]interface{}, 0, len(body.Docs))
	for _, item := range body.Docs {
		entry := map[string]interface{}{
			"_index": item.Index,
			"_id":    item.ID,
			"found":  false,
		}
		if idx, ok := s.indices[item.Index]; ok {
			if doc, found := idx.docs[item.ID]; found {
				entry["found"] = true
				entry["_version"] = 1
				entry["_source"] = doc
			}
		}
		docs = append(docs, entry)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"docs": docs})
}

func (idx *index) removeFromOrder(id string) {
	for i, v := range idx.order {
		if v == id {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
