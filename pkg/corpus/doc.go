/*
Package corpus provides the character streams a word graph is trained from:
plain files, in-memory text, and a SQLite-backed document store whose
documents are read back, in insertion order, as one continuous stream.

Only raw corpus text is stored. Graphs are always rebuilt from it.
*/
package corpus
