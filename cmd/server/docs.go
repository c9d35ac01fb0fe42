// Package main PlatiOnline payment server API
//
//	@title						PlatiOnline Payment Server API
//	@version					1.0
//	@description				Payment start, relay, notification and admin endpoints for PlatiOnline.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Payment
//	@tag.description			Endpoints called by the processor and the customer's browser
//
//	@tag.name					Order
//	@tag.description			Order status and audit notes
//
//	@tag.name					Settings
//	@tag.description			Merchant settings per store
package main
