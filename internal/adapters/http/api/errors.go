package api

import (
	"errors"
	"net/http"

	"github.com/okian/gradebook/internal/adapters/repository"
	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/session"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request body too large")
	ErrNotText    = errors.New("upload is not a text file")
)

// Response messages and codes.
const (
	msgReadFailed      = "Erreur lors de la lecture du fichier CSV."
	msgNoCompetencies  = "Le fichier CSV ne contient pas de compétences valides."
	msgNoStudents      = "Aucun élève importé"
	codeParseFailed    = "parse_failed"
	codeNoRecords      = "no_valid_records"
	codeInvalidScore   = "invalid_score"
	codeInvalidChoice  = "invalid_choice"
	codeEmptyRoster    = "empty_roster"
	codeExportFailed   = "export_failed"
	codeNotFound       = "not_found"
	codeBadRequest     = "bad_request"
	codePayloadTooBig  = "payload_too_large"
	codeInternalError  = "internal_error"
	codeServiceStopped = "unavailable"
)

// unavailable is implemented by errors of a backend that is not serving yet.
type unavailable interface {
	Unavailable() bool
}

func isUnavailable(err error) bool {
	var u unavailable
	return errors.As(err, &u) && u.Unavailable()
}

// apiError is a resolved HTTP failure.
type apiError struct {
	status  int
	code    string
	message string
}

// classify maps domain errors to HTTP responses. kind selects the message
// for empty imports.
func classify(err error, kind csvimport.Kind) apiError {
	switch {
	case errors.Is(err, ErrTooLarge):
		return apiError{http.StatusRequestEntityTooLarge, codePayloadTooBig, err.Error()}
	case errors.Is(err, ErrBadRequest):
		return apiError{http.StatusBadRequest, codeBadRequest, err.Error()}
	case errors.Is(err, ErrNotText), errors.Is(err, csvimport.ErrParseFailure):
		return apiError{http.StatusBadRequest, codeParseFailed, msgReadFailed}
	case errors.Is(err, csvimport.ErrEmptyResultSet):
		msg := msgNoStudents
		if kind == csvimport.KindCompetency {
			msg = msgNoCompetencies
		}
		return apiError{http.StatusUnprocessableEntity, codeNoRecords, msg}
	case errors.Is(err, session.ErrInvalidScoreValue):
		return apiError{http.StatusUnprocessableEntity, codeInvalidScore, err.Error()}
	case errors.Is(err, session.ErrInvalidChoice):
		return apiError{http.StatusBadRequest, codeInvalidChoice, err.Error()}
	case errors.Is(err, session.ErrEmptyRoster):
		return apiError{http.StatusConflict, codeEmptyRoster, msgNoStudents}
	case errors.Is(err, session.ErrExportSink):
		return apiError{http.StatusBadGateway, codeExportFailed, err.Error()}
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, session.ErrStudentNotFound):
		return apiError{http.StatusNotFound, codeNotFound, err.Error()}
	case errors.Is(err, repository.ErrClosed), isUnavailable(err):
		return apiError{http.StatusServiceUnavailable, codeServiceStopped, err.Error()}
	default:
		return apiError{http.StatusInternalServerError, codeInternalError, http.StatusText(http.StatusInternalServerError)}
	}
}

func writeDomainError(w http.ResponseWriter, err error, kind csvimport.Kind) {
	e := classify(err, kind)
	writeJSON(w, e.status, errorResponse{Code: e.code, Message: e.message})
}
