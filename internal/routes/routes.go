package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/haguru/obito/internal/interfaces"
	"github.com/haguru/obito/internal/middleware"
	"github.com/haguru/obito/internal/models/dto"
	"github.com/haguru/obito/internal/render"
	"github.com/haguru/obito/internal/session"
	"github.com/haguru/obito/internal/uploads"
	"github.com/haguru/obito/internal/userservice"

	structValidator "github.com/go-playground/validator/v10"
)

// formOverhead is the slack on top of the upload size limit for the other
// multipart fields and boundaries.
const formOverhead = 10 << 10

type Route struct {
	Metrics     interfaces.Metrics
	UserService *userservice.UserService
	Sessions    *session.Manager
	Intake      *uploads.Intake
	Renderer    *render.Renderer
	Logger      interfaces.Logger
	validator   *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, userService *userservice.UserService,
	sessions *session.Manager, intake *uploads.Intake, renderer *render.Renderer,
	logger interfaces.Logger, validator *structValidator.Validate,
) *Route {

	return &Route{
		Metrics:     metrics,
		UserService: userService,
		Sessions:    sessions,
		Intake:      intake,
		Renderer:    renderer,
		Logger:      logger,
		validator:   validator,
	}
}

// Home renders the protected homepage. It runs behind the session guard, so
// the payload is taken from the request context.
func (r *Route) Home(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	payload, ok := middleware.SessionFromContext(req.Context())
	if !ok {
		// Reached without the guard; treat like any unauthenticated request.
		http.Redirect(w, req, LoginRouteAPI, http.StatusSeeOther)
		return
	}

	r.Renderer.Render(w, render.PageHomepage, render.Data{Username: payload.Username})
}

// Login renders the login form on GET and processes credentials on POST.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.Renderer.Render(w, render.PageLogin, render.Data{})
	case http.MethodPost:
		r.processLogin(w, req)
	default:
		http.Error(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func (r *Route) processLogin(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	form := &dto.LoginForm{
		Username: req.PostFormValue(UsernameField),
		Password: req.PostFormValue(PasswordField),
	}

	if err := r.validator.Struct(form); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		w.WriteHeader(http.StatusBadRequest)
		r.Renderer.Render(w, render.PageLogin, render.Data{Error: MsgMissingFields})
		return
	}

	startTime := time.Now()

	authenticated, err := r.UserService.AuthenticateUser(req.Context(), form.Username, form.Password)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	}

	if err != nil && !errors.Is(err, userservice.ErrInvalidCredentials) {
		r.Logger.Error("Login failed on storage error", "user", form.Username, "error", err)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		w.WriteHeader(http.StatusInternalServerError)
		r.Renderer.Render(w, render.PageLogin, render.Data{Error: MsgInternalError})
		return
	}

	if !authenticated {
		// Unknown user and wrong password render the same message.
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		w.WriteHeader(http.StatusUnauthorized)
		r.Renderer.Render(w, render.PageLogin, render.Data{Error: MsgInvalidCredentials})
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
	}

	r.Sessions.Create(w, form.Username)
	http.Redirect(w, req, HomeRouteAPI, http.StatusSeeOther)
}

// Signup renders the signup form on GET and registers a new user on POST.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.Renderer.Render(w, render.PageSignup, render.Data{})
	case http.MethodPost:
		r.processSignup(w, req)
	default:
		http.Error(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func (r *Route) processSignup(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	form := &dto.SignupForm{
		Username: req.PostFormValue(UsernameField),
		Password: req.PostFormValue(PasswordField),
	}

	if err := r.validator.Struct(form); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		w.WriteHeader(http.StatusBadRequest)
		r.Renderer.Render(w, render.PageSignup, render.Data{Error: MsgMissingFields})
		return
	}

	startTime := time.Now()

	_, err := r.UserService.RegisterUser(req.Context(), form.Username, form.Password)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(SignupDurationSeconds, time.Since(startTime).Seconds())
	}

	if errors.Is(err, userservice.ErrDuplicateUsername) {
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		w.WriteHeader(http.StatusConflict)
		r.Renderer.Render(w, render.PageSignup, render.Data{Error: MsgUsernameExists})
		return
	}
	if err != nil {
		r.Logger.Error("Signup failed on storage error", "user", form.Username, "error", err)
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		w.WriteHeader(http.StatusInternalServerError)
		r.Renderer.Render(w, render.PageSignup, render.Data{Error: MsgInternalError})
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
	}

	// A fresh signup leaves the client authenticated.
	r.Sessions.Create(w, form.Username)
	http.Redirect(w, req, HomeRouteAPI, http.StatusSeeOther)
}

// Logout destroys the current session and sends the client back to the login
// page. Logging out without a session is harmless.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	r.Sessions.Destroy(w, req)
	http.Redirect(w, req, LoginRouteAPI, http.StatusSeeOther)
}

// Upload accepts a single multipart file field and stores it to disk. It runs
// behind the session guard.
func (r *Route) Upload(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(UploadRequestsTotal)
	}

	// Cut the request off at the configured limit instead of buffering an
	// unbounded body.
	req.Body = http.MaxBytesReader(w, req.Body, r.Intake.MaxBytes()+formOverhead)

	if err := req.ParseMultipartForm(r.Intake.MaxBytes()); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(UploadErrorsTotal)
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, ErrNoFileAttached, http.StatusBadRequest)
		return
	}

	file, header, err := req.FormFile(FileField)
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(UploadErrorsTotal)
		}
		http.Error(w, ErrNoFileAttached, http.StatusBadRequest)
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			r.Logger.Warn("Failed to close uploaded file", "error", cerr)
		}
	}()

	username := req.PostFormValue(UsernameField)

	startTime := time.Now()
	publicPath, err := r.Intake.Accept(file, header.Filename)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(UploadDurationSeconds, time.Since(startTime).Seconds())
	}

	if err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(UploadErrorsTotal)
		}
		switch {
		case errors.Is(err, uploads.ErrNoFile):
			http.Error(w, ErrNoFileAttached, http.StatusBadRequest)
		case errors.Is(err, uploads.ErrFileTooLarge):
			http.Error(w, ErrFileTooLarge, http.StatusRequestEntityTooLarge)
		default:
			r.Logger.Error("Failed to store upload", "file", header.Filename, "error", err)
			http.Error(w, MsgInternalError, http.StatusInternalServerError)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(UploadSuccessTotal)
	}
	r.Logger.Info("File uploaded", "user", username, "path", publicPath)

	r.Renderer.Render(w, render.PageSuccess, render.Data{Username: username, FilePath: publicPath})
}
