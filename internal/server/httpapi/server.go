package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type AuthService interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*services.LoginResult, error)
	Logout(ctx context.Context, user *models.User) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword, confirm string) error
	Users(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, caller *models.User, id int64) error
}

type LetterService interface {
	List(ctx context.Context, l query.List) ([]models.Correspondence, int, error)
	Get(ctx context.Context, id int64) (*models.Correspondence, error)
	Create(ctx context.Context, user *models.User, in models.CorrespondenceInput) (*models.Correspondence, error)
	Update(ctx context.Context, user *models.User, id int64, in models.CorrespondenceInput) (*models.FieldUpdateResult, error)
	UpdateField(ctx context.Context, user *models.User, id int64, fields map[string]json.RawMessage) (*models.FieldUpdateResult, error)
	Delete(ctx context.Context, id int64) error
	Detail(ctx context.Context, id int64) (*models.LetterDetail, error)
	ParseFilename(name string) (*services.FilenameParse, error)
}

type WorkflowService interface {
	Types(ctx context.Context, l query.List) ([]models.CorrespondenceType, int, error)
	Type(ctx context.Context, id int64) (*models.CorrespondenceType, error)
	CreateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error)
	UpdateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error)
	DeleteType(ctx context.Context, id int64) error

	Procedures(ctx context.Context, l query.List) ([]models.Procedure, int, error)
	Procedure(ctx context.Context, id int64) (*models.Procedure, error)
	CreateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error)
	UpdateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error)
	DeleteProcedure(ctx context.Context, id int64) error
}

type ContactService interface {
	List(ctx context.Context, l query.List) ([]models.Contact, int, error)
	Approvers(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, c models.Contact) (*models.Contact, error)
	Update(ctx context.Context, c models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentService interface {
	List(ctx context.Context, l query.List) ([]models.Attachment, int, error)
	Upload(ctx context.Context, letterID int64, files []services.Upload) ([]models.Attachment, error)
	Delete(ctx context.Context, id int64) error
	ProcessMsg(ctx context.Context, name string, data []byte) (*models.ProcessMsgResult, error)
}

// Services groups what the handlers call.
type Services struct {
	Auth        AuthService
	Letters     LetterService
	Workflow    WorkflowService
	Contacts    ContactService
	Attachments AttachmentService
}

type Server struct {
	address   string
	svc       Services
	logger    logging.Logger
	maxUpload int64
}

// NewServer prepares the API on address. maxUpload is the per-file
// attachment limit; it also bounds multipart bodies.
func NewServer(address string, svc Services, maxUpload int64, l logging.Logger) *Server {
	return &Server{
		address:   address,
		svc:       svc,
		logger:    l.With("module", "http_server"),
		maxUpload: maxUpload,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/auth/logout/", s.logout)
			r.Get("/auth/check/", s.check)
			r.Get("/auth/permissions/", s.permissions)
			r.Get("/auth/profile/", s.profile)
			r.Put("/auth/profile/", s.updateProfile)
			r.Post("/auth/change-password/", s.changePassword)

			r.With(requirePermission("can_manage_users")).Get("/auth/users/", s.listUsers)
			r.With(requirePermission("can_manage_users")).Delete("/auth/users/{id}/", s.deleteUser)

			r.Route("/correspondence", func(r chi.Router) {
				r.Get("/", s.listLetters)
				r.With(requirePermission("can_create_correspondence")).Post("/", s.createLetter)
				r.Post("/parse-filename/", s.parseFilename)
				r.Get("/{id}/", s.getLetter)
				r.Put("/{id}/", s.updateLetter)
				r.With(requirePermission("can_delete_correspondence")).Delete("/{id}/", s.deleteLetter)
				r.Get("/{id}/detail-with-relations/", s.letterDetail)
				r.Patch("/{id}/update-field/", s.updateLetterField)
			})

			r.Route("/correspondence-types", func(r chi.Router) {
				r.Get("/", s.listTypes)
				r.Get("/{id}/", s.getType)
				r.Group(func(r chi.Router) {
					r.Use(requirePermission("is_admin"))
					r.Post("/", s.createType)
					r.Put("/{id}/", s.updateType)
					r.Delete("/{id}/", s.deleteType)
				})
			})

			r.Route("/correspondence-procedures", func(r chi.Router) {
				r.Get("/", s.listProcedures)
				r.Get("/{id}/", s.getProcedure)
				r.Group(func(r chi.Router) {
					r.Use(requirePermission("is_admin"))
					r.Post("/", s.createProcedure)
					r.Put("/{id}/", s.updateProcedure)
					r.Delete("/{id}/", s.deleteProcedure)
				})
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", s.listContacts)
				r.Get("/approvers/", s.approvers)
				r.Post("/", s.createContact)
				r.Get("/{id}/", s.getContact)
				r.Put("/{id}/", s.updateContact)
				r.With(requirePermission("is_admin")).Delete("/{id}/", s.deleteContact)
			})

			r.Get("/attachments/", s.listAttachments)
			r.Post("/attachments/", s.uploadAttachments)
			r.Delete("/attachments/{id}/", s.deleteAttachment)
			r.Post("/process-msg/", s.processMsg)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "err", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
