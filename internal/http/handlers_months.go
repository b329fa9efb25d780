package http

import (
	"bytes"
	"net/http"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/report"
)

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Month(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonth(view))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := s.svc.Export(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExport(exp))
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.documents.GetOrBuild("md:"+month, s.svc.Version(), func() ([]byte, error) {
		exp, err := s.svc.Export(month)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := report.WriteTable(&buf, exp, report.FormatMarkdown); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.TableFileName(month)+`"`)
	_, _ = w.Write(body)
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.documents.GetOrBuild("xlsx:"+month, s.svc.Version(), func() ([]byte, error) {
		exp, err := s.svc.Export(month)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := report.WriteWorkbook(&buf, exp); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", report.WorkbookContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.WorkbookFileName(month)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.documents.GetOrBuild("png:"+month, s.svc.Version(), func() ([]byte, error) {
		view, err := s.svc.Month(month)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := report.WritePieChart(&buf, view.Categories); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}
