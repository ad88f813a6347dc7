/*
Package template parses html/template files from a caller-provided fs.FS,
falling back to the templates embedded in this package under tmpl/.

The embedded tmpl/error.tmpl renders when nothing else can.
*/
package template
