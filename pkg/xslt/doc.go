// Package xslt renders serialized documents with XSLT stylesheets.
//
// The transformation engine is a black box behind [Transformer]. [Exec]
// implements it with the xsltproc command line tool; tests and embedders
// can plug in any function through [TransformerFunc].
//
// [Renderer] ties the pieces together:
//
//	r, err := xslt.NewRenderer(xslt.NewExec(),
//		xslt.WithStylesheetDirs("templates/xslt"),
//		xslt.WithSerializer(xmltree.New()),
//	)
//	html, err := r.RenderInstances(ctx, "article.xsl", articles, xslt.Params{
//		"title": xslt.PrepareStringParam(title),
//	})
//
// Stylesheet parameters are XPath expressions. Plain strings must be
// quoted with [PrepareStringParam].
package xslt
