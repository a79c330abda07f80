// Package command hosts the write-side handlers for go-homebrief: logging
// engagement events and forcing brief refreshes. Handlers implement the
// go-command Commander contract so hosts can mount them on their own buses.
package command
