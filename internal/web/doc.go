// Package web renders the public HTML listing of published posts.
package web
