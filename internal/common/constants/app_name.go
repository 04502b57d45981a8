package constants

const (
	AppStorefront       = "storefront"
	AppProductService   = "product-service"
	AppCartService      = "cart-service"
	AppPortfolioService = "portfolio-service"
)
