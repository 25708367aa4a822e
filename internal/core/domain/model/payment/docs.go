// Package payment holds the payment methods offered at checkout and the Policy a
// buyer's trust band maps to.
package payment
