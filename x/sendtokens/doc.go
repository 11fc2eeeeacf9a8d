/*
Package sendtokens implements an owner gated distribution ledger.

The ledger tracks a finite token supply, the balance credited to every
account and an ordered list of recipients. Only the owner of the deployed
ledger can distribute tokens or change the list of recipients. Anyone can
read the state.

A distribution credits the same amount to every recipient and debits the
supply by the total in one step. Recipients are validated and all arithmetic
is overflow checked before anything is written, so a failed call never leaves
partial changes behind.

The list of recipients does not prevent duplicates. A recipient added twice
receives the amount twice on every distribution. Keeping the list unique is
the responsibility of the owner.
*/
package sendtokens
