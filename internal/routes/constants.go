package routes

var (
	SignupDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	UploadDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

const (
	// API route constants
	HomeRouteAPI    = "/"
	LoginRouteAPI   = "/login"
	SignupRouteAPI  = "/signup"
	LogoutRouteAPI  = "/logout"
	UploadRouteAPI  = "/upload"
	MetricsRouteAPI = "/metrics"
	UploadsMount    = "/uploads/"
	StaticMount     = "/static/"

	// Form field constants
	UsernameField = "username"
	PasswordField = "password"
	FileField     = "profileimage"

	// user-facing message constants
	MsgInvalidCredentials = "Invalid credentials"
	MsgUsernameExists     = "Username already exists"
	MsgMissingFields      = "Username and password are required"
	MsgInternalError      = "Something went wrong"

	// Error messages
	ErrMethodNotAllowed = "method not allowed"
	ErrNoFileAttached   = "no file attached"
	ErrFileTooLarge     = "file too large"

	// metrics constants
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"
	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailedTotal          = "login_failed_total"
	LoginFailedTotalHelp      = "Total number of failed login requests"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	UploadRequestsTotal       = "upload_requests_total"
	UploadRequestsTotalHelp   = "Total number of upload requests received"
	UploadSuccessTotal        = "upload_success_total"
	UploadSuccessTotalHelp    = "Total number of successful upload requests"
	UploadErrorsTotal         = "upload_errors_total"
	UploadErrorsTotalHelp     = "Total number of errors during upload requests"
	UploadDurationSeconds     = "upload_duration_seconds"
	UploadDurationSecondsHelp = "Duration of upload requests in seconds"
)
