package usecase

// ColumnKeys is exported for testing
var ColumnKeys = (*FileCreationUseCase).columnKeys
