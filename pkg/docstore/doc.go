// Package docstore is a document store that keeps one file per document.
//
// A [Repository] owns a directory "<root>/<name>" and stores each document as
// "<id>.<extension>", where the extension and the encoding come from a
// pluggable [Formatter]. The file content is exactly the formatter's encoding
// of the document's [Fields]; there is no header, index, or manifest, so the
// directory can be inspected and edited with ordinary tools.
//
//	repo, err := docstore.New("posts", docstore.Config{
//	    Root:         "data",
//	    Formatter:    format.NewJSON(),
//	    QueryFactory: query.Factory{},
//	})
//	if err != nil {
//	    return err
//	}
//
//	doc := docstore.NewDocument(docstore.FieldsOf("title", "Hello", "views", 3))
//	id, err := repo.Store(doc)
//
// Formatters live in subpackage format; a query engine lives in subpackage
// query.
package docstore
