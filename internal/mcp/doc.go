// Package mcp exposes the documentation pipeline over the Model Context
// Protocol on stdio. Stdout carries the protocol stream exclusively; all
// logging goes to stderr.
package mcp
