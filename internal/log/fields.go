package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldUserID       = "user_id"
	FieldEmail        = "email"
	FieldIngredient   = "ingredient"
	FieldItemID       = "item_id"
	FieldMonthKey     = "month_year"
	FieldAmountCents  = "amount_cents"
	FieldActivityType = "activity_type"
	FieldUpstreamURL  = "upstream_url"
	FieldPort         = "port"
	FieldDBPath       = "db_path"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentAuth     = "auth"
	ComponentSession  = "session"
	ComponentStorage  = "storage"
	ComponentShopping = "shopping"
	ComponentBudget   = "budget"
	ComponentActivity = "activity"
	ComponentRecipes  = "recipes"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpList     = "list"
	OpLogin    = "login"
	OpSignup   = "signup"
	OpSearch   = "search"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
