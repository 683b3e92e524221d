package log

const (
	KeyAppName       = "app"
	KeyConfig        = "config"
	KeyProcess       = "process"
	KeyRequestID     = "requestId"
	KeyRequestHost   = "host"
	KeyRequestIP     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyTag           = "tag"
	KeyDbURL         = "dbURL"
	KeyProduct       = "product"
	KeyProducts      = "products"
	KeyProductID     = "productId"
	KeyKeyword       = "keyword"
	KeyStatus        = "status"
)
