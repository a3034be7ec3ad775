// Package templates holds the page shell shared by every GUI page.
package templates

//go:generate go tool templ generate
