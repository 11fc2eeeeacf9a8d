/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each configuration is a singleton record kept under a key derived from the
owning package name. A configuration is loaded from the genesis file once,
validated and persisted, and read back by the host on every start.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.

*/
package gconf
