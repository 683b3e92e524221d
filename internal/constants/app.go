package constants

const (
	AppMain           = "commerce"
	AppApiGateway     = "api-gateway"
	AppOrderService   = "order-service"
	AppProductService = "product-service"
)
