// Package pages contains the page-level GUI components.
package pages
