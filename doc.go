/*

Package disburse defines interfaces used throughout the app, such as: storage, transactions, handlers etc.
It also contains helpers to work with the context, account identifiers and audit events.
Look into this package to get an brief overview of design decisions made around interfaces and extension
building blocks.

We pass context through context.Context between app, decorators, and handlers.
There should exist two functions for every XYZ of type T that we want to support
in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level modules
overwriting the value (eg. owner, height)

*/

package disburse
