package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	id, err := s.ledger.LedgerID()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	commit, err := s.ledger.CommitInfo()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Status   string `json:"status"`
		LedgerID string `json:"ledger_id"`
		Version  int64  `json:"version"`
	}{
		Status:   "ok",
		LedgerID: id,
		Version:  commit.Version,
	})
}

func (s *Server) handleDistributor(w http.ResponseWriter, r *http.Request) {
	d, err := s.ledger.GetDistributor()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, d)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.ledger.ListCollections()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, objects{Objects: cols})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.ledger.GetStats(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, c)
}

func (s *Server) handleDistributions(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			JSONErr(w, http.StatusBadRequest, "limit must be a non negative integer")
			return
		}
		limit = n
	}
	events, err := s.ledger.ListDistributions(chi.URLParam(r, "id"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, objects{Objects: events})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := revshare.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "address must be a valid address value")
		return
	}
	balance, err := s.ledger.Balance(addr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Address revshare.Address `json:"address"`
		Balance uint64           `json:"balance"`
	}{
		Address: addr,
		Balance: balance,
	})
}

type objects struct {
	Objects interface{} `json:"objects"`
}

// fail writes an error response. Unexpected errors are logged and their
// details never reach the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	JSONErr(w, code, errors.Redact(err).Error())
}

func statusCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrInput.Is(err), errors.ErrEmpty.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONErrs(w, code, []string{errText})
}

// JSONErrs write multiple errors as JSON encoded response.
func JSONErrs(w http.ResponseWriter, code int, errs []string) {
	resp := struct {
		Errors []string `json:"errors"`
	}{
		Errors: errs,
	}
	JSONResp(w, code, resp)
}
