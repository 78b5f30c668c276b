// Package preview runs the development loop behind `malvolio serve`: it
// watches the source trees, rebuilds the site on change, and serves the
// output directory with live reload.
package preview
