// Package fakecrm is an in-memory implementation of the CRM service's HTTP interface. It declares
// its capabilities through the status resource like a real service would, so the contract tests
// can be run against it end to end, and its capability list can be narrowed to see how the tests
// report functionality that is not implemented yet.
package fakecrm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	config   Config
	store    *Store
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *serverMetrics
	router   *mux.Router

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewServer(config Config, store *Store, logger *zap.Logger) *Server {
	if store == nil {
		store = NewStore(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config:   config,
		store:    store,
		logger:   logger,
		validate: validator.New(),
		metrics:  newServerMetrics(prometheus.NewRegistry()),
		stopCh:   make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware(s.logger))
	r.Use(s.metrics.middleware)
	// mux only applies middleware to matched routes.
	r.NotFoundHandler = s.unmatched(http.StatusNotFound)
	r.MethodNotAllowedHandler = s.unmatched(http.StatusMethodNotAllowed)

	r.HandleFunc("/", s.getStatus).Methods(http.MethodGet)
	r.HandleFunc("/", s.deleteStatus).Methods(http.MethodDelete)
	r.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)

	r.HandleFunc("/leads", s.capability(servicedef.CapabilityListLeads, s.listLeads)).Methods(http.MethodGet)
	r.HandleFunc("/leads", s.capability(servicedef.CapabilityCreateLead, s.createLead)).Methods(http.MethodPost)
	r.HandleFunc("/leads/{id}", s.capability(servicedef.CapabilityGetLead, s.getLead)).Methods(http.MethodGet)
	r.HandleFunc("/leads/{id}", s.capability(servicedef.CapabilityUpdateLead, s.updateLead)).Methods(http.MethodPut)
	r.HandleFunc("/leads/{id}", s.capability(servicedef.CapabilityDeleteLead, s.deleteLead)).Methods(http.MethodDelete)
	r.HandleFunc("/leads/{id}/documents",
		s.capability(servicedef.CapabilityUploadDocument, s.uploadDocument)).Methods(http.MethodPost)
	r.HandleFunc("/leads/{id}/documents",
		s.capability(servicedef.CapabilityListDocuments, s.listDocuments)).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id}", s.capability(servicedef.CapabilityGetDocument, s.getDocument)).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id}",
		s.capability(servicedef.CapabilityDeleteDocument, s.deleteDocument)).Methods(http.MethodDelete)
	r.HandleFunc("/calls", s.capability(servicedef.CapabilitySaveCallMetadata, s.saveCall)).Methods(http.MethodPost)
	r.HandleFunc("/calls/{id}/recording",
		s.capability(servicedef.CapabilityGetCallRecording, s.getRecording)).Methods(http.MethodGet)
	r.HandleFunc("/calls/{id}/notes",
		s.capability(servicedef.CapabilityUpdateCallNotes, s.updateCallNotes)).Methods(http.MethodPut)

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) unmatched(status int) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
	})
	return requestIDMiddleware(s.logger)(s.metrics.middleware(h))
}

// Stopped is closed when a client has asked the service to exit with DELETE /.
func (s *Server) Stopped() <-chan struct{} {
	return s.stopCh
}

func (s *Server) declares(capability string) bool {
	for _, c := range s.config.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// capability answers with the legacy "not implemented" placeholder if the capability is not
// declared in the configuration.
func (s *Server) capability(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.declares(name) {
			writeJSON(w, http.StatusNotFound, servicedef.ErrorRep{Error: "Not implemented"})
			return
		}
		h(w, r)
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.StatusRep{
		Description:  s.config.Description,
		Capabilities: append([]string{}, s.config.Capabilities...),
	})
}

func (s *Server) deleteStatus(w http.ResponseWriter, r *http.Request) {
	loggerFrom(r, s.logger).Info("stop requested")
	w.WriteHeader(http.StatusNoContent)
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads := s.store.ListLeads()
	rep := leadListRep{Leads: make([]leadRep, 0, len(leads)), Total: len(leads)}
	for _, l := range leads {
		rep.Leads = append(rep.Leads, makeLeadRep(l))
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lead, ok := s.store.GetLead(id)
	if !ok {
		writeNotFound(w, "lead", id)
		return
	}
	writeJSON(w, http.StatusOK, makeLeadRep(lead))
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var params servicedef.LeadParams
	if !s.readBody(w, r, &params) {
		return
	}
	lead := s.store.CreateLead(params)
	loggerFrom(r, s.logger).Debug("lead created", zap.String("lead_id", lead.ID))
	writeJSON(w, http.StatusCreated, makeLeadRep(lead))
}

func (s *Server) updateLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var update servicedef.LeadUpdateParams
	if !s.readBody(w, r, &update) {
		return
	}
	lead, ok := s.store.UpdateLead(id, update)
	if !ok {
		writeNotFound(w, "lead", id)
		return
	}
	writeJSON(w, http.StatusOK, makeLeadRep(lead))
}

func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.DeleteLead(id) {
		writeNotFound(w, "lead", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	leadID := mux.Vars(r)["id"]
	var file servicedef.FileData
	if !s.readBody(w, r, &file) {
		return
	}
	doc := s.store.AddDocument(leadID, file)
	loggerFrom(r, s.logger).Debug("document uploaded",
		zap.String("document_id", doc.ID), zap.String("lead_id", leadID))
	writeJSON(w, http.StatusCreated, makeDocumentRep(doc, s.config.StorageBaseURL))
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.store.ListDocuments(mux.Vars(r)["id"])
	rep := documentListRep{Documents: make([]documentRep, 0, len(docs)), Total: len(docs)}
	for _, d := range docs {
		rep.Documents = append(rep.Documents, makeDocumentRep(d, s.config.StorageBaseURL))
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, ok := s.store.GetDocument(id)
	if !ok {
		writeNotFound(w, "document", id)
		return
	}
	writeJSON(w, http.StatusOK, makeDocumentRep(doc, s.config.StorageBaseURL))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.DeleteDocument(id) {
		writeNotFound(w, "document", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) saveCall(w http.ResponseWriter, r *http.Request) {
	var metadata servicedef.CallMetadataParams
	if !s.readBody(w, r, &metadata) {
		return
	}
	call := s.store.SaveCall(metadata)
	writeJSON(w, http.StatusCreated, makeCallRep(call))
}

func (s *Server) getRecording(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetCall(id); !ok {
		writeNotFound(w, "call", id)
		return
	}
	writeJSON(w, http.StatusOK, recordingRep{
		CallID:       id,
		RecordingURL: fmt.Sprintf("%s/%s.wav", strings.TrimRight(s.config.RecordingBaseURL, "/"), id),
		Expiration:   formatTime(s.store.Now().Add(s.config.RecordingExpiry)),
	})
}

func (s *Server) updateCallNotes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var params servicedef.CallNotesParams
	if !s.readBody(w, r, &params) {
		return
	}
	call, ok := s.store.UpdateCallNotes(id, params.Notes)
	if !ok {
		writeNotFound(w, "call", id)
		return
	}
	writeJSON(w, http.StatusOK, makeCallRep(call))
}

// readBody decodes and validates a JSON request body, answering 400 if either step fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorRep{Message: "malformed JSON body: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorRep{Message: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeNotFound reports a missing record. The body has no "error" property, so it is not
// mistaken for the "not implemented" placeholder.
func writeNotFound(w http.ResponseWriter, kind, id string) {
	writeJSON(w, http.StatusNotFound, servicedef.ErrorRep{Message: fmt.Sprintf("%s %s not found", kind, id)})
}
