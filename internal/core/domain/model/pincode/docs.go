// Package pincode models postal zones as the geographic key of delivery risk: the
// six-digit Code value object and the Risk record of order outcomes per pincode.
package pincode
