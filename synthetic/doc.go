// Package synthetic provides pseudo-children for interactive expansion of
// UNO handles: the pointee of Reference and rtl::Reference handles, and the
// elements of Sequence handles.
package synthetic
