package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/study-planner/internal/application"
)

// RouterConfig wires handlers into the router. Health reports storage reachability
// for /healthz; nil means always healthy.
type RouterConfig struct {
	Dashboard  *DashboardHandler
	Timetable  *TimetableHandler
	Planner    *PlannerHandler
	Profile    *ProfileHandler
	Health     func(ctx context.Context) error
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	healthResponder := newResponder(nil)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				healthResponder.writeError(r.Context(), w, http.StatusServiceUnavailable, nil)
				return
			}
		}
		healthResponder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Dashboard != nil {
		mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Dashboard.Get(w, r)
		})
	}

	if cfg.Timetable != nil {
		registerTimetable(mux, cfg.Timetable)
	}

	if cfg.Planner != nil {
		registerPlanner(mux, cfg.Planner)
	}

	if cfg.Profile != nil {
		mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Profile.Get(w, r)
			case http.MethodPut:
				cfg.Profile.Save(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Profile.Reset(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func registerTimetable(mux *http.ServeMux, h *TimetableHandler) {
	mux.HandleFunc("/timetable/study", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListStudy(w, r)
		case http.MethodPost:
			h.CreateStudy(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})
	mux.HandleFunc("/timetable/study/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/timetable/study/")
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithEntryID(r.Context(), id))
		switch r.Method {
		case http.MethodPut:
			h.UpdateStudy(w, r)
		case http.MethodDelete:
			h.DeleteStudy(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/timetable/exams", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListExams(w, r)
		case http.MethodPost:
			h.CreateExam(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})
	mux.HandleFunc("/timetable/exams/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/timetable/exams/")
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithEntryID(r.Context(), id))
		switch r.Method {
		case http.MethodPut:
			h.UpdateExam(w, r)
		case http.MethodDelete:
			h.DeleteExam(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/timetable/week", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.Week(w, r)
	})
}

func registerPlanner(mux *http.ServeMux, h *PlannerHandler) {
	mux.HandleFunc("/planner/screen", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.Screen(w, r)
	})
	screenActions := map[string]http.HandlerFunc{
		"/planner/quick-add":    h.QuickAdd,
		"/planner/screen/edit":  h.Edit,
		"/planner/screen/save":  h.Save,
		"/planner/screen/close": h.Close,
	}
	for pattern, action := range screenActions {
		action := action
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			action(w, r)
		})
	}

	// /planner/{tab}, /planner/{tab}/{id} and /planner/{tab}/{id}/toggle.
	mux.HandleFunc("/planner/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/planner/"), "/"), "/")
		tab := application.PlannerTab(parts[0])
		if !tab.Valid() {
			http.NotFound(w, r)
			return
		}

		switch len(parts) {
		case 1:
			switch r.Method {
			case http.MethodGet:
				h.List(w, r, tab)
			case http.MethodPost:
				h.Create(w, r, tab)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		case 2:
			r = r.WithContext(ContextWithEntryID(r.Context(), parts[1]))
			switch r.Method {
			case http.MethodPut:
				h.Update(w, r, tab)
			case http.MethodDelete:
				h.Delete(w, r, tab)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		case 3:
			if parts[2] != "toggle" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			h.Toggle(w, r.WithContext(ContextWithEntryID(r.Context(), parts[1])), tab)
		default:
			http.NotFound(w, r)
		}
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
