// Package typelib resolves UNO type descriptor records found in an inspected
// process into Entry values.
//
// A descriptor is reached from one of three record kinds:
//
//	com::sun::star::uno::Type            wrapper holding _pType
//	_typelib_TypeDescriptionReference    reference cell, follows pType
//	_typelib_*TypeDescription            concrete descriptor
//
// Concrete descriptors embed the shared _typelib_TypeDescription header as
// their leading aBase field; the resolver walks that chain to read the type
// class and name. Outcomes are cached by record address for the session,
// failures included.
package typelib
