package docstore

import "strings"

// namespaceSeparator joins the configured namespace and the document type
// name inside the EntityType tag.
const namespaceSeparator = "."

func validateNamespace(namespace string) error {
	if strings.Contains(namespace, namespaceSeparator) {
		return NewConfigurationError("namespace %q must not contain %q", namespace, namespaceSeparator)
	}
	return nil
}

// entityTag computes the namespace-qualified tag stamped on every saved
// document: "namespace.TypeName", or the bare type name when no namespace is
// configured.
func entityTag(namespace, typeName string) string {
	if namespace == "" {
		return typeName
	}
	return namespace + namespaceSeparator + typeName
}

// recordNamespace extracts the namespace prefix of a stored tag. A tag
// without a separator belongs to the empty namespace.
func recordNamespace(tag string) string {
	if i := strings.Index(tag, namespaceSeparator); i >= 0 {
		return tag[:i]
	}
	return ""
}

// checkNamespace enforces read isolation on by-id fetches. Records without a
// tag predate tenancy tagging and pass unchecked. A record tagged with a
// foreign namespace produces the same error type as true absence, so
// existence in another namespace is not observable through the error kind.
func checkNamespace(rec Record, namespace, id string) error {
	raw, ok := rec[entityTypeField]
	if !ok {
		return nil
	}
	tag, ok := raw.(string)
	if !ok {
		return nil
	}
	if recordNamespace(tag) != namespace {
		return newForeignNamespaceError(id, namespace)
	}
	return nil
}

// scope narrows a predicate to documents carrying the repository's tag, so
// foreign-namespace documents are excluded at the store rather than filtered
// after retrieval.
func scope(pred *Predicate, tag string) *Predicate {
	scoped := Equal(entityTypeField, tag)
	if pred == nil {
		return scoped
	}
	return pred.And(scoped)
}
